package optimizers

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	dsvae "github.com/ns-aazarafrooz/EEG-Disetangled-Classification"
)

func init() {
	list := map[string]func() dsvae.Optimizer{
		GradientDescent(0).TypeString(): func() dsvae.Optimizer { return GradientDescent(0) },
		Adam(0).TypeString():            func() dsvae.Optimizer { return Adam(0) },
	}

	for s, f := range list {
		if err := dsvae.RegisterOptimizer(s, f); err != nil {
			panic(err.Error())
		}
	}

	dsvae.SetDefaultOptimizer(func() dsvae.Optimizer { return Adam(1e-3) })
}

const stateFile = "state.json"

func writeState(dirPath string, v interface{}) error {
	f, err := os.Create(dirPath + "/" + stateFile)
	if err != nil {
		return errors.Wrapf(err, "creating %q in %q", stateFile, dirPath)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(v); err != nil {
		return errors.Wrapf(err, "encoding %q in %q", stateFile, dirPath)
	}
	return nil
}

func readState(dirPath string, v interface{}) error {
	f, err := os.Open(dirPath + "/" + stateFile)
	if err != nil {
		return errors.Wrapf(err, "opening %q in %q", stateFile, dirPath)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %q in %q", stateFile, dirPath)
	}
	return nil
}
