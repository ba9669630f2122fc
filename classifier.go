package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Classifier maps a sampled time-invariant factor to class logits through a
// linear-tanh-linear stack. It takes only f; the time-variant sequence must
// never reach it. That restriction is what makes the factorization a
// disentanglement rather than just a split.
type Classifier struct {
	w1 [][]*tape.Value // [hiddenDim][fDim]
	b1 []*tape.Value
	w2 [][]*tape.Value // [classes][hiddenDim]
	b2 []*tape.Value
}

func newClassifier(cfg Config, init initializers.Initializer) *Classifier {
	return &Classifier{
		w1: newMatrix(cfg.HiddenDim, cfg.FDim, init),
		b1: newVector(cfg.HiddenDim),
		w2: newMatrix(cfg.Classes, cfg.HiddenDim, init),
		b2: newVector(cfg.Classes),
	}
}

// Classify returns unnormalized logits for the sampled factor.
func (c *Classifier) Classify(f []*tape.Value) []*tape.Value {
	hidden := affine(c.w1, c.b1, f)
	for i, h := range hidden {
		hidden[i] = tape.Tanh(h)
	}
	return affine(c.w2, c.b2, hidden)
}

func (c *Classifier) params() []*tape.Value {
	ps := matrixParams(c.w1)
	ps = append(ps, c.b1...)
	ps = append(ps, matrixParams(c.w2)...)
	ps = append(ps, c.b2...)
	return ps
}
