// Package tape implements a small scalar reverse-mode autodiff engine. Every
// quantity that gradients must flow through is a *Value; building an
// expression builds the computation graph, and Backward walks it once in
// reverse topological order.
package tape

import "math"

// Value is a node in the computation graph. Data is the forward result, Grad
// the accumulated derivative of the eventual Backward root with respect to
// this node. children/localGrads record, per input, the local derivative of
// this node with respect to that input.
type Value struct {
	Data float64
	Grad float64

	children   []*Value
	localGrads []float64
}

// New returns a leaf Value. Leaves created for constants get gradients
// accumulated like any other node; callers simply never read them.
func New(x float64) *Value {
	return &Value{Data: x}
}

func Add(a, b *Value) *Value {
	return &Value{Data: a.Data + b.Data, children: []*Value{a, b}, localGrads: []float64{1, 1}}
}

func Sub(a, b *Value) *Value {
	return &Value{Data: a.Data - b.Data, children: []*Value{a, b}, localGrads: []float64{1, -1}}
}

func Mul(a, b *Value) *Value {
	return &Value{Data: a.Data * b.Data, children: []*Value{a, b}, localGrads: []float64{b.Data, a.Data}}
}

func Div(a, b *Value) *Value {
	return &Value{
		Data:       a.Data / b.Data,
		children:   []*Value{a, b},
		localGrads: []float64{1 / b.Data, -a.Data / (b.Data * b.Data)},
	}
}

func Neg(a *Value) *Value {
	return &Value{Data: -a.Data, children: []*Value{a}, localGrads: []float64{-1}}
}

func Exp(a *Value) *Value {
	e := math.Exp(a.Data)
	return &Value{Data: e, children: []*Value{a}, localGrads: []float64{e}}
}

func Log(a *Value) *Value {
	return &Value{Data: math.Log(a.Data), children: []*Value{a}, localGrads: []float64{1 / a.Data}}
}

// Square is Mul(a, a) without double-counting the child; the local gradient
// already carries the factor of two.
func Square(a *Value) *Value {
	return &Value{Data: a.Data * a.Data, children: []*Value{a}, localGrads: []float64{2 * a.Data}}
}

func Tanh(a *Value) *Value {
	t := math.Tanh(a.Data)
	return &Value{Data: t, children: []*Value{a}, localGrads: []float64{1 - t*t}}
}

func Sigmoid(a *Value) *Value {
	s := 1 / (1 + math.Exp(-a.Data))
	return &Value{Data: s, children: []*Value{a}, localGrads: []float64{s * (1 - s)}}
}

// Dot returns the inner product of a and b as a single graph node. Fusing the
// multiply-accumulate keeps the graph for wide linear layers at one node per
// output instead of two per weight. Dot panics if the lengths differ.
func Dot(a, b []*Value) *Value {
	if len(a) != len(b) {
		panic("tape: Dot of slices with different lengths")
	}

	children := make([]*Value, 0, 2*len(a))
	grads := make([]float64, 0, 2*len(a))

	var sum float64
	for i := range a {
		sum += a[i].Data * b[i].Data
		children = append(children, a[i], b[i])
		grads = append(grads, b[i].Data, a[i].Data)
	}

	return &Value{Data: sum, children: children, localGrads: grads}
}

// Sum adds a slice of Values into a single node.
func Sum(vs []*Value) *Value {
	children := make([]*Value, len(vs))
	grads := make([]float64, len(vs))

	var sum float64
	for i, v := range vs {
		sum += v.Data
		children[i] = v
		grads[i] = 1
	}

	return &Value{Data: sum, children: children, localGrads: grads}
}

// Backward accumulates d(out)/d(node) into Grad for every node reachable from
// out. Grads are added to, not replaced; call ZeroGrad on the parameters
// between steps.
func Backward(out *Value) {
	var topo []*Value
	visited := make(map[*Value]bool)

	var build func(v *Value)
	build = func(v *Value) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, ch := range v.children {
			build(ch)
		}
		topo = append(topo, v)
	}
	build(out)

	out.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		v := topo[i]
		for j, ch := range v.children {
			ch.Grad += v.localGrads[j] * v.Grad
		}
	}
}

// ZeroGrad clears the gradients of the given parameters.
func ZeroGrad(params []*Value) {
	for _, p := range params {
		p.Grad = 0
	}
}

// Floats copies out the forward values of a slice of nodes.
func Floats(vs []*Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Data
	}
	return out
}
