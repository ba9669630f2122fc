package dsvae_test

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	dsvae "github.com/ns-aazarafrooz/EEG-Disetangled-Classification"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/data"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/optimizers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

func TestCheckpointRoundTrip(t *testing.T) {
	cfg := toyConfig()
	cfg.Epochs = 1

	trials := data.Toy(2, 2, cfg.Classes, cfg.RawLength, cfg.Channels, cfg.Seed)
	train, eval, err := data.SplitBySubject(trials, 1)
	if err != nil {
		t.Fatal(err)
	}

	m, err := dsvae.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	opt := optimizers.Adam(cfg.LearningRate)
	err = m.Train(dsvae.TrainArgs{
		TrainData: train,
		TestData:  eval,
		Epochs:    1,
		Optimizer: opt,
		Noise:     initializers.Normal().Seed(21),
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "ckpt")
	if err := m.Save(dir, opt, false); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, loadedOpt, err := dsvae.Load(dir, cfg)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Epoch() != 1 {
		t.Errorf("restored epoch = %d, want 1", loaded.Epoch())
	}
	if loaded.RunID() != m.RunID() {
		t.Errorf("restored run id %q, want %q", loaded.RunID(), m.RunID())
	}
	if loadedOpt.TypeString() != "adam" {
		t.Errorf("restored optimizer %q, want adam", loadedOpt.TypeString())
	}

	// identical forward outputs from the restored model
	a, err := m.Forward(eval[0].Sequence, dsvae.Eval, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := loaded.Forward(eval[0].Sequence, dsvae.Eval, nil)
	if err != nil {
		t.Fatal(err)
	}
	av, bv := tape.Floats(a.Logits), tape.Floats(b.Logits)
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("logit %d differs after round trip: %v != %v", i, av[i], bv[i])
		}
	}

	// and identical training continuation given identical noise
	noise := int64(99)
	continueTraining := func(model *dsvae.Model, o dsvae.Optimizer) float64 {
		err := model.Train(dsvae.TrainArgs{
			TrainData: train,
			TestData:  eval,
			Epochs:    2,
			Optimizer: o,
			Noise:     initializers.Normal().Seed(noise),
		})
		if err != nil {
			t.Fatal(err)
		}
		out, err := model.Forward(eval[0].Sequence, dsvae.Eval, nil)
		if err != nil {
			t.Fatal(err)
		}
		return out.Logits[0].Data
	}

	if x, y := continueTraining(m, opt), continueTraining(loaded, loadedOpt); x != y {
		t.Errorf("resumed training diverged: %v != %v", x, y)
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	cfg := toyConfig()
	m, err := dsvae.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	opt := optimizers.GradientDescent(0.1)

	dir := filepath.Join(t.TempDir(), "ckpt")
	if err := m.Save(dir, opt, false); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(dir, opt, false); err == nil {
		t.Error("second save without overwrite succeeded")
	}
	if err := m.Save(dir, opt, true); err != nil {
		t.Errorf("overwriting save failed: %v", err)
	}
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	cfg := toyConfig()
	m, err := dsvae.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "ckpt")
	if err := m.Save(dir, optimizers.Adam(0.01), false); err != nil {
		t.Fatal(err)
	}

	bigger := cfg
	bigger.FDim++
	_, _, err = dsvae.Load(dir, bigger)
	if err == nil {
		t.Fatal("mismatched configuration accepted")
	}
	if !errors.Is(err, dsvae.ErrShapeMismatch) {
		t.Errorf("error is %v, want ErrShapeMismatch", err)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, _, err := dsvae.Load(filepath.Join(t.TempDir(), "nope"), toyConfig()); err == nil {
		t.Error("loading a missing checkpoint succeeded")
	}
}
