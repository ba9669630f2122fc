package dsvae

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const mainFile = "main.json"
const weightsFile = "weights.json"
const optDir = "optimizer"

type checkpointMain struct {
	RunID     string `json:"run_id"`
	Epoch     int    `json:"epoch"`
	Optimizer string `json:"optimizer"`
	NumParams int    `json:"num_params"`
	Config    Config `json:"config"`
}

// Save writes the model to the specified path, creating a directory to
// contain it (with permissions 0700): the run metadata and configuration,
// every parameter in construction order, and the optimizer's own state.
//
// If 'overwrite' is false and the directory already exists, Save will return
// an error.
func (m *Model) Save(dirPath string, opt Optimizer, overwrite bool) error {
	if opt == nil {
		return NilArgError{"Optimizer"}
	}

	if _, err := os.Stat(dirPath); err == nil {
		if !overwrite {
			return errors.Errorf("can't save model, %q already exists and overwrite is not enabled", dirPath)
		}

		if err := os.RemoveAll(dirPath); err != nil {
			return errors.Wrap(err, "can't save model, couldn't remove pre-existing directory")
		}
	}

	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return errors.Wrap(err, "couldn't make directory to save model")
	}

	main := checkpointMain{
		RunID:     m.runID,
		Epoch:     m.epoch,
		Optimizer: opt.TypeString(),
		NumParams: len(m.params),
		Config:    m.cfg,
	}
	if err := writeJSON(dirPath+"/"+mainFile, main); err != nil {
		return err
	}

	ws := make([]float64, len(m.params))
	for i, p := range m.params {
		ws[i] = p.Data
	}
	if err := writeJSON(dirPath+"/"+weightsFile, ws); err != nil {
		return err
	}

	if err := os.MkdirAll(dirPath+"/"+optDir, 0700); err != nil {
		return errors.Wrap(err, "couldn't make optimizer directory")
	}
	if err := opt.Save(dirPath + "/" + optDir); err != nil {
		return errors.Wrap(err, "saving optimizer state")
	}

	return nil
}

// Load reconstructs a model and its optimizer from a checkpoint previously
// written by Save. cfg is the currently configured model; a checkpoint whose
// shapes do not match it is a fatal configuration error, surfaced here
// before any training resumes. Training fields of cfg (epoch count, status
// interval) take precedence over the saved ones; the optimizer restores its
// own hyperparameters from its saved state.
func Load(dirPath string, cfg Config) (*Model, Optimizer, error) {
	if _, err := os.Stat(dirPath); err != nil {
		return nil, nil, errors.Wrapf(err, "can't load model from %q", dirPath)
	}

	var main checkpointMain
	if err := readJSON(dirPath+"/"+mainFile, &main); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if !cfg.sameShape(main.Config) {
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "checkpoint %q", dirPath)
	}

	m, err := New(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	var ws []float64
	if err := readJSON(dirPath+"/"+weightsFile, &ws); err != nil {
		return nil, nil, err
	}
	if len(ws) != len(m.params) || main.NumParams != len(m.params) {
		return nil, nil, errors.Wrapf(ErrShapeMismatch,
			"checkpoint has %d weights, model has %d parameters", len(ws), len(m.params))
	}
	for i, p := range m.params {
		p.Data = ws[i]
	}

	m.epoch = main.Epoch
	m.runID = main.RunID

	opt, err := newOptimizerByType(main.Optimizer)
	if err != nil {
		return nil, nil, err
	}
	if err := opt.Load(dirPath + "/" + optDir); err != nil {
		return nil, nil, errors.Wrap(err, "loading optimizer state")
	}

	return m, opt, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(v); err != nil {
		return errors.Wrapf(err, "encoding %q", path)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %q", path)
	}
	return nil
}
