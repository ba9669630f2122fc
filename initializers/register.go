package initializers

import (
	"math"

	"github.com/pkg/errors"
)

// default values, because 'default' is a keyword
var defaultValue map[string]float64

func init() {
	defaultValue = map[string]float64{
		"uniform-lower": -1,
		"uniform-upper": 1,
		"normal-mean":   0,
		"normal-sd":     1,
	}
}

// Default returns the Initializer used when a model is constructed without an
// explicit one: small uniform weights, which keeps the recurrent gates away
// from saturation at the start of training.
func Default(seed int64) Initializer {
	return Random(Uniform().Bounds(-0.1, 0.1).Seed(seed))
}

// SetDefault overrides one of the package-level default values used by the
// RNG constructors.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}
