package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// newMatrix allocates an nout x nin weight matrix, filled by the given
// Initializer one row at a time.
func newMatrix(nout, nin int, init initializers.Initializer) [][]*tape.Value {
	buf := make([]float64, nout*nin)
	init.Set(buf)

	m := make([][]*tape.Value, nout)
	for o := 0; o < nout; o++ {
		row := make([]*tape.Value, nin)
		for i := 0; i < nin; i++ {
			row[i] = tape.New(buf[o*nin+i])
		}
		m[o] = row
	}
	return m
}

// newVector allocates a bias vector, zero-initialized.
func newVector(n int) []*tape.Value {
	v := make([]*tape.Value, n)
	for i := range v {
		v[i] = tape.New(0)
	}
	return v
}

// affine computes w*x + b.
func affine(w [][]*tape.Value, b []*tape.Value, x []*tape.Value) []*tape.Value {
	out := make([]*tape.Value, len(w))
	for o, row := range w {
		out[o] = tape.Add(tape.Dot(row, x), b[o])
	}
	return out
}

func matrixParams(m [][]*tape.Value) []*tape.Value {
	var ps []*tape.Value
	for _, row := range m {
		ps = append(ps, row...)
	}
	return ps
}

// lstmCell is a standard LSTM unit: forget, ignore and select gates over a
// cell state, with an update branch. All weights act on the concatenation of
// the step input and the previous hidden state.
type lstmCell struct {
	inDim, hidDim int

	wf, wi, ws, wu [][]*tape.Value
	bf, bi, bs, bu []*tape.Value
}

func newLSTMCell(inDim, hidDim int, init initializers.Initializer) *lstmCell {
	cat := inDim + hidDim
	return &lstmCell{
		inDim:  inDim,
		hidDim: hidDim,
		wf:     newMatrix(hidDim, cat, init),
		wi:     newMatrix(hidDim, cat, init),
		ws:     newMatrix(hidDim, cat, init),
		wu:     newMatrix(hidDim, cat, init),
		bf:     newVector(hidDim),
		bi:     newVector(hidDim),
		bs:     newVector(hidDim),
		bu:     newVector(hidDim),
	}
}

// zeroState returns fresh all-zero hidden and cell states.
func (l *lstmCell) zeroState() (h, c []*tape.Value) {
	return newVector(l.hidDim), newVector(l.hidDim)
}

// step advances the cell one timestep, returning new hidden and cell states.
func (l *lstmCell) step(x, h, c []*tape.Value) (nh, nc []*tape.Value) {
	cat := make([]*tape.Value, 0, len(x)+len(h))
	cat = append(cat, x...)
	cat = append(cat, h...)

	nh = make([]*tape.Value, l.hidDim)
	nc = make([]*tape.Value, l.hidDim)
	for j := 0; j < l.hidDim; j++ {
		f := tape.Sigmoid(tape.Add(tape.Dot(l.wf[j], cat), l.bf[j]))
		i := tape.Sigmoid(tape.Add(tape.Dot(l.wi[j], cat), l.bi[j]))
		s := tape.Sigmoid(tape.Add(tape.Dot(l.ws[j], cat), l.bs[j]))
		u := tape.Tanh(tape.Add(tape.Dot(l.wu[j], cat), l.bu[j]))

		nc[j] = tape.Add(tape.Mul(f, c[j]), tape.Mul(i, u))
		nh[j] = tape.Mul(s, tape.Tanh(nc[j]))
	}

	return nh, nc
}

func (l *lstmCell) params() []*tape.Value {
	var ps []*tape.Value
	for _, m := range [][][]*tape.Value{l.wf, l.wi, l.ws, l.wu} {
		ps = append(ps, matrixParams(m)...)
	}
	for _, b := range [][]*tape.Value{l.bf, l.bi, l.bs, l.bu} {
		ps = append(ps, b...)
	}
	return ps
}
