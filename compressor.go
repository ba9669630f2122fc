package dsvae

import (
	"github.com/pkg/errors"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Compressor downsamples a raw (rawLength, channels) sequence into
// (T, hiddenDim) feature vectors: a strided sliding-window linear projection
// followed by tanh. Inputs arrive pre-normalized, so no learned
// normalization is carried.
type Compressor struct {
	rawLength, channels int
	window, stride      int

	w [][]*tape.Value // [hiddenDim][window*channels]
	b []*tape.Value
}

func newCompressor(cfg Config, init initializers.Initializer) (*Compressor, error) {
	if cfg.RawLength < cfg.Window {
		return nil, errors.Wrapf(ErrShortSequence, "raw length %d, window %d", cfg.RawLength, cfg.Window)
	}

	return &Compressor{
		rawLength: cfg.RawLength,
		channels:  cfg.Channels,
		window:    cfg.Window,
		stride:    cfg.Stride,
		w:         newMatrix(cfg.HiddenDim, cfg.Window*cfg.Channels, init),
		b:         newVector(cfg.HiddenDim),
	}, nil
}

// Compress projects each window of the raw sequence. seq must already be
// wrapped as tape values (see wrapSequence); its length is checked by the
// caller. Deterministic given fixed weights: there is no sampling here.
func (c *Compressor) Compress(seq [][]*tape.Value) [][]*tape.Value {
	steps := (len(seq)-c.window)/c.stride + 1

	out := make([][]*tape.Value, steps)
	flat := make([]*tape.Value, c.window*c.channels)
	for t := 0; t < steps; t++ {
		start := t * c.stride
		for i := 0; i < c.window; i++ {
			copy(flat[i*c.channels:(i+1)*c.channels], seq[start+i])
		}

		step := make([]*tape.Value, len(c.w))
		for o := range c.w {
			step[o] = tape.Tanh(tape.Add(tape.Dot(c.w[o], flat), c.b[o]))
		}
		out[t] = step
	}

	return out
}

func (c *Compressor) params() []*tape.Value {
	return append(matrixParams(c.w), c.b...)
}

// wrapSequence turns a raw float sequence into graph leaves.
func wrapSequence(seq [][]float64) [][]*tape.Value {
	out := make([][]*tape.Value, len(seq))
	for t, step := range seq {
		vs := make([]*tape.Value, len(step))
		for i, x := range step {
			vs[i] = tape.New(x)
		}
		out[t] = vs
	}
	return out
}
