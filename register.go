package dsvae

import (
	"github.com/pkg/errors"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Optimizer mutates model parameters from their accumulated gradients. It is
// the only thing allowed to change parameters; forward and evaluation passes
// only read them. Implementations clear the gradients they consume.
//
// Save and Load persist any internal state (momentum buffers, step counters)
// so a resumed run continues deterministically.
type Optimizer interface {
	Run(params []*tape.Value) error

	// TypeString returns the string corresponding to the type of the
	// Optimizer; checkpoints use it to reconstruct the right one on load.
	TypeString() string

	Save(dirPath string) error
	Load(dirPath string) error
}

var (
	optimizerTypes   = make(map[string]func() Optimizer)
	defaultOptimizer func() Optimizer
)

// RegisterOptimizer makes an Optimizer constructor available by name, which
// is how checkpoint loading reconstructs optimizers. Registering the same
// name twice or a constructor that returns nil is an error.
func RegisterOptimizer(name string, f func() Optimizer) error {
	if name == "" {
		return errors.Wrap(ErrRegisterWrongType, "empty name")
	} else if _, ok := optimizerTypes[name]; ok {
		return errors.Wrapf(ErrRegisterWrongType, "name %q is already taken", name)
	} else if f == nil || f() == nil {
		return errors.Wrapf(ErrRegisterNilReturn, "constructor for %q", name)
	}

	optimizerTypes[name] = f
	return nil
}

// SetDefaultOptimizer sets the constructor used when TrainArgs leaves the
// Optimizer nil.
func SetDefaultOptimizer(f func() Optimizer) {
	defaultOptimizer = f
}

func newOptimizerByType(name string) (Optimizer, error) {
	f, ok := optimizerTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "no registered optimizer %q (missing import of the optimizers package?)", name)
	}
	return f(), nil
}

func newDefaultOptimizer() (Optimizer, error) {
	if defaultOptimizer == nil {
		return nil, errors.Errorf("no default optimizer set (missing import of the optimizers package?)")
	}
	return defaultOptimizer(), nil
}
