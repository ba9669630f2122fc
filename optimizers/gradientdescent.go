package optimizers

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

type gradientdescent struct {
	lr float64
}

// GradientDescent returns a plain SGD optimizer with the given learning
// rate. It carries no state, so Save and Load are no-ops.
func GradientDescent(learningRate float64) *gradientdescent {
	return &gradientdescent{lr: learningRate}
}

func (g *gradientdescent) TypeString() string {
	return "sgd"
}

func (g *gradientdescent) Run(params []*tape.Value) error {
	for _, p := range params {
		p.Data -= g.lr * p.Grad
		p.Grad = 0
	}

	return nil
}

func (g *gradientdescent) Save(dirPath string) error {
	return writeState(dirPath, map[string]interface{}{"lr": g.lr})
}

func (g *gradientdescent) Load(dirPath string) error {
	var st struct {
		LR float64 `json:"lr"`
	}
	if err := readState(dirPath, &st); err != nil {
		return err
	}

	g.lr = st.LR
	return nil
}
