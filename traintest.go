package dsvae

import (
	"github.com/pkg/errors"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/data"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Result is a wrapper for sending back the progress of a training run: the
// epoch's average loss components and the evaluation accuracy measured after
// that epoch.
type Result struct {
	Epoch int

	// Averages over the epoch's training steps.
	Total        float64
	CrossEntropy float64
	KLDF         float64
	KLDZ         float64

	// Fraction of held-out trials classified correctly, 0 → 1.
	Accuracy float64
}

// TrainArgs collects the arguments to Train; a proxy for the optional
// arguments available in other languages.
type TrainArgs struct {
	// TrainData and TestData are the two sides of a subject-wise split.
	// Neither may be empty.
	TrainData []data.Trial
	TestData  []data.Trial

	// Epochs is the total epoch count to reach, counting epochs completed
	// before a resume. Training runs while the model's epoch is below it.
	Epochs int

	// Optimizer can be left nil to use the registered default.
	Optimizer Optimizer

	// Noise is the standard-normal source for reparameterized sampling. Nil
	// uses a Normal RNG seeded from the model configuration; tests inject
	// their own.
	Noise initializers.RNG

	// SendStatus indicates whether or not to report a Result after the given
	// epoch. Nil means report every epoch.
	SendStatus func(epoch int) bool

	// Update is how Results are returned. It may be nil.
	Update func(Result)
}

// Train runs epochs of single-trial steps: one forward pass, one loss, one
// backward pass and one optimizer update per trial, strictly in sequence.
// After each epoch the held-out trials are evaluated with sampling disabled
// and parameters frozen; training resumes in stochastic mode on the next
// epoch automatically, since mode is per call rather than model state.
func (m *Model) Train(args TrainArgs) error {
	// handle error cases and set defaults
	{
		if len(args.TrainData) == 0 || len(args.TestData) == 0 {
			return errors.Wrap(ErrEmptySplit, "training setup")
		}

		if err := data.Validate(args.TrainData, m.cfg.RawLength, m.cfg.Channels, m.cfg.Classes); err != nil {
			return errors.Wrap(err, "training split")
		}
		if err := data.Validate(args.TestData, m.cfg.RawLength, m.cfg.Channels, m.cfg.Classes); err != nil {
			return errors.Wrap(err, "evaluation split")
		}

		if args.Optimizer == nil {
			opt, err := newDefaultOptimizer()
			if err != nil {
				return err
			}
			args.Optimizer = opt
		}

		if args.Noise == nil {
			args.Noise = initializers.Normal().Seed(m.cfg.Seed + 1)
		}

		if args.SendStatus == nil {
			args.SendStatus = func(int) bool { return true }
		}

		if args.Update == nil {
			args.Update = func(Result) {}
		}
	}

	for m.epoch < args.Epochs {
		var sumTotal, sumCE, sumKLF, sumKLZ float64

		for i, tr := range args.TrainData {
			out, err := m.Forward(tr.Sequence, Train, args.Noise)
			if err != nil {
				return errors.Wrapf(err, "forward pass failed on trial %d of epoch %d", i, m.epoch)
			}

			losses, err := m.Loss(out, tr.Label)
			if err != nil {
				return errors.Wrapf(err, "loss composition failed on trial %d of epoch %d", i, m.epoch)
			}

			tape.Backward(losses.Total)
			if err := args.Optimizer.Run(m.params); err != nil {
				return errors.Wrapf(err, "optimizer step failed on trial %d of epoch %d", i, m.epoch)
			}

			sumTotal += losses.Total.Data
			sumCE += losses.CrossEntropy.Data
			sumKLF += losses.KLDF.Data
			sumKLZ += losses.KLDZ.Data
		}

		m.epoch++

		acc, err := m.Test(args.TestData)
		if err != nil {
			return errors.Wrapf(err, "evaluation failed after epoch %d", m.epoch)
		}

		if args.SendStatus(m.epoch) {
			n := float64(len(args.TrainData))
			args.Update(Result{
				Epoch:        m.epoch,
				Total:        sumTotal / n,
				CrossEntropy: sumCE / n,
				KLDF:         sumKLF / n,
				KLDZ:         sumKLZ / n,
				Accuracy:     acc,
			})
		}
	}

	return nil
}

// Test evaluates classification accuracy over the given trials with sampling
// disabled (posterior means) and no parameter mutation. The graphs built
// during evaluation are discarded without a backward pass.
func (m *Model) Test(trials []data.Trial) (float64, error) {
	if len(trials) == 0 {
		return 0, errors.Wrap(ErrEmptySplit, "evaluation")
	}

	var correct float64
	for i, tr := range trials {
		out, err := m.Forward(tr.Sequence, Eval, nil)
		if err != nil {
			return 0, errors.Wrapf(err, "evaluating trial %d", i)
		}

		// NaN logits from upstream numeric degeneracy count as wrong rather
		// than aborting; the condition stays observable in the accuracy.
		if CorrectHighest(tape.Floats(out.Logits), tr.Label) {
			correct++
		}
	}

	return correct / float64(len(trials)), nil
}
