package dsvae

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds every knob of the model and its training run. The zero value
// is not usable; start from Default or a yaml file and call Validate.
type Config struct {
	// Input geometry.
	RawLength int `yaml:"raw_length"`
	Channels  int `yaml:"channels"`

	// Temporal compressor: sliding window size and stride over the raw
	// sequence. The number of compressed steps T follows from these.
	Window int `yaml:"window"`
	Stride int `yaml:"stride"`

	// Sizes of the compressed feature vectors, the recurrent hidden states,
	// and the two latent spaces.
	HiddenDim int `yaml:"hidden_dim"`
	RNNDim    int `yaml:"rnn_dim"`
	FDim      int `yaml:"f_dim"`
	ZDim      int `yaml:"z_dim"`

	Classes int `yaml:"classes"`

	// BidirectionalZ runs the time-variant posterior over the sequence in
	// both directions. ConditionZOnF concatenates the sampled f to every
	// compressed step before the posterior recurrence.
	BidirectionalZ bool `yaml:"bidirectional_z"`
	ConditionZOnF  bool `yaml:"condition_z_on_f"`

	// Weights on the two KL terms. Both default to 1, which reproduces the
	// reference objective exactly: a raw sum for the factor KL, a mean for
	// the sequential KL.
	KLFWeight float64 `yaml:"klf_weight"`
	KLZWeight float64 `yaml:"klz_weight"`

	// Training.
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	Seed         int64   `yaml:"seed"`
	StatusEvery  int     `yaml:"status_every"`
}

// Default returns the reference configuration: window 320 and stride 160
// over raw sequences of length 3518, giving T=20 compressed steps.
func Default() Config {
	return Config{
		RawLength:    3518,
		Channels:     14,
		Window:       320,
		Stride:       160,
		HiddenDim:    64,
		RNNDim:       64,
		FDim:         16,
		ZDim:         16,
		Classes:      4,
		KLFWeight:    1,
		KLZWeight:    1,
		LearningRate: 1e-3,
		Epochs:       100,
		Seed:         1,
		StatusEvery:  1,
	}
}

// Steps returns T, the number of compressed timesteps produced from a raw
// sequence.
func (c Config) Steps() int {
	return (c.RawLength-c.Window)/c.Stride + 1
}

// fillDefaults replaces unset optional fields so that hand-written yaml can
// omit them.
func (c *Config) fillDefaults() {
	if c.KLFWeight == 0 {
		c.KLFWeight = 1
	}
	if c.KLZWeight == 0 {
		c.KLZWeight = 1
	}
	if c.StatusEvery == 0 {
		c.StatusEvery = 1
	}
	if c.LearningRate == 0 {
		c.LearningRate = 1e-3
	}
}

// Validate reports the configuration errors of the fatal-at-setup kind. It
// also fills defaults for the optional fields, so a validated Config is
// ready to use.
func (c *Config) Validate() error {
	c.fillDefaults()

	switch {
	case c.RawLength < 1:
		return errors.Errorf("raw_length must be >= 1 (%d)", c.RawLength)
	case c.Channels < 1:
		return errors.Errorf("channels must be >= 1 (%d)", c.Channels)
	case c.Window < 1 || c.Stride < 1:
		return errors.Errorf("window and stride must be >= 1 (%d, %d)", c.Window, c.Stride)
	case c.RawLength < c.Window:
		return errors.Wrapf(ErrShortSequence, "raw_length %d < window %d", c.RawLength, c.Window)
	case c.HiddenDim < 1 || c.RNNDim < 1:
		return errors.Errorf("hidden_dim and rnn_dim must be >= 1 (%d, %d)", c.HiddenDim, c.RNNDim)
	case c.FDim < 1 || c.ZDim < 1:
		return errors.Errorf("latent dimensions must be >= 1 (f: %d, z: %d)", c.FDim, c.ZDim)
	case c.Classes < 2:
		return errors.Errorf("classes must be >= 2 (%d)", c.Classes)
	case c.KLFWeight < 0 || c.KLZWeight < 0:
		return errors.Errorf("KL weights must be >= 0 (%v, %v)", c.KLFWeight, c.KLZWeight)
	case c.Epochs < 0:
		return errors.Errorf("epochs must be >= 0 (%d)", c.Epochs)
	}

	return nil
}

// sameShape reports whether two configurations produce models with identical
// parameter shapes. Training fields are allowed to differ.
func (c Config) sameShape(o Config) bool {
	return c.RawLength == o.RawLength &&
		c.Channels == o.Channels &&
		c.Window == o.Window &&
		c.Stride == o.Stride &&
		c.HiddenDim == o.HiddenDim &&
		c.RNNDim == o.RNNDim &&
		c.FDim == o.FDim &&
		c.ZDim == o.ZDim &&
		c.Classes == o.Classes &&
		c.BidirectionalZ == o.BidirectionalZ &&
		c.ConditionZOnF == o.ConditionZOnF
}

// LoadConfig reads and validates a yaml Config.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %q", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %q", path)
	}

	return cfg, nil
}
