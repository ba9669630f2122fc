package tape

import (
	"math"
	"testing"
)

const gradTol = 1e-6

// numericGrad estimates df/dx by central differences, where f rebuilds the
// expression from scratch on every call.
func numericGrad(f func(x float64) float64, x float64) float64 {
	const h = 1e-5
	return (f(x+h) - f(x-h)) / (2 * h)
}

func TestBackwardComposite(t *testing.T) {
	// y = tanh(a*b) + exp(a) / (b*b)
	build := func(av, bv float64) (*Value, *Value, *Value) {
		a, b := New(av), New(bv)
		y := Add(Tanh(Mul(a, b)), Div(Exp(a), Mul(b, b)))
		return y, a, b
	}

	y, a, b := build(0.7, -1.3)
	Backward(y)

	wantA := numericGrad(func(x float64) float64 {
		out, _, _ := build(x, -1.3)
		return out.Data
	}, 0.7)
	wantB := numericGrad(func(x float64) float64 {
		out, _, _ := build(0.7, x)
		return out.Data
	}, -1.3)

	if math.Abs(a.Grad-wantA) > gradTol {
		t.Errorf("da: got %v, want %v", a.Grad, wantA)
	}
	if math.Abs(b.Grad-wantB) > gradTol {
		t.Errorf("db: got %v, want %v", b.Grad, wantB)
	}
}

func TestBackwardReusedNode(t *testing.T) {
	// y = x*x + x; dy/dx = 2x + 1. The same node appears on multiple paths,
	// so gradients must accumulate, not overwrite.
	x := New(3)
	y := Add(Mul(x, x), x)
	Backward(y)

	if want := 2*3.0 + 1; math.Abs(x.Grad-want) > gradTol {
		t.Errorf("dx: got %v, want %v", x.Grad, want)
	}
}

func TestSquareMatchesMul(t *testing.T) {
	x := New(-2.5)
	y := Square(x)
	Backward(y)

	if y.Data != 6.25 {
		t.Errorf("forward: got %v, want 6.25", y.Data)
	}
	if want := 2 * -2.5; math.Abs(x.Grad-want) > gradTol {
		t.Errorf("dx: got %v, want %v", x.Grad, want)
	}
}

func TestDot(t *testing.T) {
	a := []*Value{New(1), New(2), New(3)}
	b := []*Value{New(4), New(5), New(6)}

	y := Dot(a, b)
	if y.Data != 32 {
		t.Fatalf("forward: got %v, want 32", y.Data)
	}

	Backward(y)
	for i := range a {
		if math.Abs(a[i].Grad-b[i].Data) > gradTol {
			t.Errorf("da[%d]: got %v, want %v", i, a[i].Grad, b[i].Data)
		}
		if math.Abs(b[i].Grad-a[i].Data) > gradTol {
			t.Errorf("db[%d]: got %v, want %v", i, b[i].Grad, a[i].Data)
		}
	}
}

func TestDotLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched Dot lengths")
		}
	}()
	Dot([]*Value{New(1)}, []*Value{New(1), New(2)})
}

func TestSigmoidGrad(t *testing.T) {
	x := New(0.4)
	y := Sigmoid(x)
	Backward(y)

	want := numericGrad(func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	}, 0.4)
	if math.Abs(x.Grad-want) > gradTol {
		t.Errorf("dx: got %v, want %v", x.Grad, want)
	}
}

func TestZeroGrad(t *testing.T) {
	x := New(1)
	Backward(Mul(x, x))
	if x.Grad == 0 {
		t.Fatal("expected nonzero grad before reset")
	}

	ZeroGrad([]*Value{x})
	if x.Grad != 0 {
		t.Errorf("grad not cleared: %v", x.Grad)
	}
}
