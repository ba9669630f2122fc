package optimizers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

type adam struct {
	lr, beta1, beta2, eps float64

	step int
	m, v []float64
}

// Adam returns an Adam optimizer with the given learning rate and standard
// defaults for the moment decays. The moment buffers are lazily sized to the
// parameter count on the first Run and persisted by Save, so a resumed run
// continues with identical updates.
func Adam(learningRate float64) *adam {
	return &adam{lr: learningRate, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

// Betas overrides the moment decay rates, returning the optimizer.
func (a *adam) Betas(beta1, beta2 float64) *adam {
	a.beta1 = beta1
	a.beta2 = beta2
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Run(params []*tape.Value) error {
	if a.m == nil {
		a.m = make([]float64, len(params))
		a.v = make([]float64, len(params))
	}
	if len(a.m) != len(params) {
		return errors.Errorf("adam state has %d moments, model has %d parameters", len(a.m), len(params))
	}

	a.step++
	for i, p := range params {
		a.m[i] = a.beta1*a.m[i] + (1-a.beta1)*p.Grad
		a.v[i] = a.beta2*a.v[i] + (1-a.beta2)*p.Grad*p.Grad

		mHat := a.m[i] / (1 - math.Pow(a.beta1, float64(a.step)))
		vHat := a.v[i] / (1 - math.Pow(a.beta2, float64(a.step)))

		p.Data -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		p.Grad = 0
	}

	return nil
}

type adamState struct {
	LR    float64   `json:"lr"`
	Beta1 float64   `json:"beta1"`
	Beta2 float64   `json:"beta2"`
	Eps   float64   `json:"eps"`
	Step  int       `json:"step"`
	M     []float64 `json:"m"`
	V     []float64 `json:"v"`
}

func (a *adam) Save(dirPath string) error {
	return writeState(dirPath, adamState{
		LR: a.lr, Beta1: a.beta1, Beta2: a.beta2, Eps: a.eps,
		Step: a.step, M: a.m, V: a.v,
	})
}

func (a *adam) Load(dirPath string) error {
	var st adamState
	if err := readState(dirPath, &st); err != nil {
		return err
	}

	a.lr, a.beta1, a.beta2, a.eps = st.LR, st.Beta1, st.Beta2, st.Eps
	a.step, a.m, a.v = st.Step, st.M, st.V
	return nil
}
