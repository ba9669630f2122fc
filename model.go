package dsvae

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Mode selects whether a forward pass samples its latents (Train) or uses
// posterior means (Eval). It is an explicit per-call argument instead of a
// mutable flag on the model, so concurrent test passes cannot leak state
// into each other.
type Mode int

const (
	Train Mode = iota
	Eval
)

// Model composes the five components of the disentangled classifier. Its
// parameters are mutated only by an Optimizer's Run; forward passes read
// them without modification.
type Model struct {
	cfg Config

	comp  *Compressor
	inv   *InvariantEncoder
	post  *VariantPosterior
	prior *VariantPrior
	cls   *Classifier

	params []*tape.Value

	// epoch counts completed training epochs; persisted in checkpoints so
	// resumed runs continue where they stopped.
	epoch int
	runID string
}

// Output carries everything one forward pass produced. The loss composer and
// the property tests both consume it.
type Output struct {
	Compressed [][]*tape.Value

	F       Gaussian
	FSample []*tape.Value

	ZPost    []Gaussian
	ZPrior   []Gaussian
	ZSamples [][]*tape.Value

	Logits []*tape.Value
}

// New builds a model for the given configuration. A nil init uses the
// package default seeded from cfg.Seed. Configuration errors (short
// sequences, degenerate dimensions) are fatal here, not per call.
func New(cfg Config, init initializers.Initializer) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if init == nil {
		init = initializers.Default(cfg.Seed)
	}

	comp, err := newCompressor(cfg, init)
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:   cfg,
		comp:  comp,
		inv:   newInvariantEncoder(cfg, init),
		post:  newVariantPosterior(cfg, init),
		prior: newVariantPrior(cfg, init),
		cls:   newClassifier(cfg, init),
		runID: uuid.NewString(),
	}

	m.params = append(m.params, m.comp.params()...)
	m.params = append(m.params, m.inv.params()...)
	m.params = append(m.params, m.post.params()...)
	m.params = append(m.params, m.prior.params()...)
	m.params = append(m.params, m.cls.params()...)

	return m, nil
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.cfg }

// Params returns the live parameter slice. The order is fixed by
// construction, which is what checkpointing and the optimizer rely on.
func (m *Model) Params() []*tape.Value { return m.params }

// Epoch returns the number of completed training epochs.
func (m *Model) Epoch() int { return m.epoch }

// RunID identifies this training run across checkpoints.
func (m *Model) RunID() string { return m.runID }

// Forward runs one trial through the model. In Train mode, f and each z_t
// are sampled by reparameterization with fresh noise from the given source;
// draw order is fixed as f first, then z_1..z_T, one standard-normal value
// per latent dimension. In Eval mode posterior means are used and noise may
// be nil.
//
// The classifier sees only the sampled f. The prior runs in parallel over
// the sampled z sequence to produce the parameters the sequential KL term
// compares against.
func (m *Model) Forward(seq [][]float64, mode Mode, noise initializers.RNG) (*Output, error) {
	if len(seq) != m.cfg.RawLength {
		return nil, SizeMismatchError{Expected: m.cfg.RawLength, Got: len(seq), What: "sequence length"}
	}
	for t, step := range seq {
		if len(step) != m.cfg.Channels {
			return nil, SizeMismatchError{Expected: m.cfg.Channels, Got: len(step), What: "channels at step " + strconv.Itoa(t)}
		}
	}
	if mode == Train && noise == nil {
		return nil, NilArgError{"noise source"}
	}

	out := &Output{}
	out.Compressed = m.comp.Compress(wrapSequence(seq))

	out.F = m.inv.Encode(out.Compressed)
	if mode == Train {
		out.FSample = out.F.Sample(noise)
	} else {
		out.FSample = out.F.Mean
	}

	var cond []*tape.Value
	if m.cfg.ConditionZOnF {
		cond = out.FSample
	}
	out.ZPost = m.post.Encode(out.Compressed, cond)

	out.ZSamples = make([][]*tape.Value, len(out.ZPost))
	for t, g := range out.ZPost {
		if mode == Train {
			out.ZSamples[t] = g.Sample(noise)
		} else {
			out.ZSamples[t] = g.Mean
		}
	}

	out.ZPrior = make([]Gaussian, len(out.ZSamples))
	st := m.prior.Reset()
	var prev []*tape.Value
	for t := range out.ZSamples {
		out.ZPrior[t], st = m.prior.Step(st, prev)
		prev = out.ZSamples[t]
	}

	out.Logits = m.cls.Classify(out.FSample)
	return out, nil
}

// Classify exposes the classifier head directly; used to verify that logits
// depend on nothing but the sampled factor.
func (m *Model) Classify(f []*tape.Value) []*tape.Value {
	return m.cls.Classify(f)
}

