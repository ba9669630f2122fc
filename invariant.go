package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// InvariantEncoder produces the posterior over the time-invariant factor f:
// a bidirectional LSTM over the compressed sequence, final forward and
// backward hidden states concatenated, then linear heads for the mean and
// log-variance.
type InvariantEncoder struct {
	fwd, bwd *lstmCell

	meanW, logvarW [][]*tape.Value // [fDim][2*rnnDim]
	meanB, logvarB []*tape.Value
}

func newInvariantEncoder(cfg Config, init initializers.Initializer) *InvariantEncoder {
	return &InvariantEncoder{
		fwd:     newLSTMCell(cfg.HiddenDim, cfg.RNNDim, init),
		bwd:     newLSTMCell(cfg.HiddenDim, cfg.RNNDim, init),
		meanW:   newMatrix(cfg.FDim, 2*cfg.RNNDim, init),
		logvarW: newMatrix(cfg.FDim, 2*cfg.RNNDim, init),
		meanB:   newVector(cfg.FDim),
		logvarB: newVector(cfg.FDim),
	}
}

// Encode runs both directions over the compressed sequence and projects the
// concatenated final states.
func (e *InvariantEncoder) Encode(seq [][]*tape.Value) Gaussian {
	hf, cf := e.fwd.zeroState()
	for t := 0; t < len(seq); t++ {
		hf, cf = e.fwd.step(seq[t], hf, cf)
	}

	hb, cb := e.bwd.zeroState()
	for t := len(seq) - 1; t >= 0; t-- {
		hb, cb = e.bwd.step(seq[t], hb, cb)
	}

	cat := append(append([]*tape.Value{}, hf...), hb...)
	return Gaussian{
		Mean:   affine(e.meanW, e.meanB, cat),
		Logvar: affine(e.logvarW, e.logvarB, cat),
	}
}

func (e *InvariantEncoder) params() []*tape.Value {
	ps := append(e.fwd.params(), e.bwd.params()...)
	ps = append(ps, matrixParams(e.meanW)...)
	ps = append(ps, matrixParams(e.logvarW)...)
	ps = append(ps, e.meanB...)
	ps = append(ps, e.logvarB...)
	return ps
}
