package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// VariantPrior is the autoregressive prior over the time-variant latents. It
// is a recurrent state machine that never sees the observed data: each step
// emits (mean, logvar) from its current hidden state, then advances the
// state consuming the previously sampled latent. This is what pulls the
// posterior toward a self-consistent temporal dynamic instead of a fixed
// distribution.
//
// State is passed explicitly through Reset/Step rather than held on the
// struct, so independent trials and tests cannot contaminate each other.
type VariantPrior struct {
	cell *lstmCell
	z0   []*tape.Value // learned initial pseudo-latent, consumed at t=1

	meanW, logvarW [][]*tape.Value
	meanB, logvarB []*tape.Value
}

// PriorState is the recurrent state threaded through successive Step calls.
type PriorState struct {
	h, c []*tape.Value
}

func newVariantPrior(cfg Config, init initializers.Initializer) *VariantPrior {
	buf := make([]float64, cfg.ZDim)
	init.Set(buf)
	z0 := make([]*tape.Value, cfg.ZDim)
	for i, x := range buf {
		z0[i] = tape.New(x)
	}

	return &VariantPrior{
		cell:    newLSTMCell(cfg.ZDim, cfg.RNNDim, init),
		z0:      z0,
		meanW:   newMatrix(cfg.ZDim, cfg.RNNDim, init),
		logvarW: newMatrix(cfg.ZDim, cfg.RNNDim, init),
		meanB:   newVector(cfg.ZDim),
		logvarB: newVector(cfg.ZDim),
	}
}

// Reset returns the fixed zero initial state.
func (p *VariantPrior) Reset() PriorState {
	h, c := p.cell.zeroState()
	return PriorState{h: h, c: c}
}

// Step emits the prior parameters for the current timestep from the state's
// hidden vector, then advances the state consuming prev, the latent sampled
// at the previous timestep. Pass prev == nil on the first step to consume
// the learned initial pseudo-latent instead.
func (p *VariantPrior) Step(st PriorState, prev []*tape.Value) (Gaussian, PriorState) {
	g := Gaussian{
		Mean:   affine(p.meanW, p.meanB, st.h),
		Logvar: affine(p.logvarW, p.logvarB, st.h),
	}

	if prev == nil {
		prev = p.z0
	}
	nh, nc := p.cell.step(prev, st.h, st.c)

	return g, PriorState{h: nh, c: nc}
}

func (p *VariantPrior) params() []*tape.Value {
	ps := append([]*tape.Value{}, p.z0...)
	ps = append(ps, p.cell.params()...)
	ps = append(ps, matrixParams(p.meanW)...)
	ps = append(ps, matrixParams(p.logvarW)...)
	ps = append(ps, p.meanB...)
	ps = append(ps, p.logvarB...)
	return ps
}
