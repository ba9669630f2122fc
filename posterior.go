package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// VariantPosterior produces the per-step posteriors over the time-variant
// latents z_1..z_T: a forward (optionally bidirectional) LSTM over the
// compressed sequence, each step's hidden state projected to a mean and
// log-variance pair. When conditioning on f is enabled, the sampled f is
// concatenated to every step's input.
type VariantPosterior struct {
	fwd *lstmCell
	bwd *lstmCell // nil unless bidirectional

	meanW, logvarW [][]*tape.Value
	meanB, logvarB []*tape.Value
}

func newVariantPosterior(cfg Config, init initializers.Initializer) *VariantPosterior {
	inDim := cfg.HiddenDim
	if cfg.ConditionZOnF {
		inDim += cfg.FDim
	}

	outDim := cfg.RNNDim
	p := &VariantPosterior{
		fwd: newLSTMCell(inDim, cfg.RNNDim, init),
	}
	if cfg.BidirectionalZ {
		p.bwd = newLSTMCell(inDim, cfg.RNNDim, init)
		outDim = 2 * cfg.RNNDim
	}

	p.meanW = newMatrix(cfg.ZDim, outDim, init)
	p.logvarW = newMatrix(cfg.ZDim, outDim, init)
	p.meanB = newVector(cfg.ZDim)
	p.logvarB = newVector(cfg.ZDim)
	return p
}

// Encode returns one Gaussian per compressed timestep. f may be nil when the
// posterior is not conditioned on the invariant factor.
func (p *VariantPosterior) Encode(seq [][]*tape.Value, f []*tape.Value) []Gaussian {
	steps := make([][]*tape.Value, len(seq))
	for t, s := range seq {
		if f == nil {
			steps[t] = s
			continue
		}
		steps[t] = append(append([]*tape.Value{}, s...), f...)
	}

	hidden := make([][]*tape.Value, len(steps))
	h, c := p.fwd.zeroState()
	for t := 0; t < len(steps); t++ {
		h, c = p.fwd.step(steps[t], h, c)
		hidden[t] = h
	}

	if p.bwd != nil {
		hb, cb := p.bwd.zeroState()
		for t := len(steps) - 1; t >= 0; t-- {
			hb, cb = p.bwd.step(steps[t], hb, cb)
			hidden[t] = append(append([]*tape.Value{}, hidden[t]...), hb...)
		}
	}

	out := make([]Gaussian, len(steps))
	for t, ht := range hidden {
		out[t] = Gaussian{
			Mean:   affine(p.meanW, p.meanB, ht),
			Logvar: affine(p.logvarW, p.logvarB, ht),
		}
	}
	return out
}

func (p *VariantPosterior) params() []*tape.Value {
	ps := p.fwd.params()
	if p.bwd != nil {
		ps = append(ps, p.bwd.params()...)
	}
	ps = append(ps, matrixParams(p.meanW)...)
	ps = append(ps, matrixParams(p.logvarW)...)
	ps = append(ps, p.meanB...)
	ps = append(ps, p.logvarB...)
	return ps
}
