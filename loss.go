package dsvae

import (
	"github.com/pkg/errors"

	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Losses holds the composite objective and its three components, all still
// on the tape so Backward can run on Total.
type Losses struct {
	Total        *tape.Value
	CrossEntropy *tape.Value
	KLDF         *tape.Value
	KLDZ         *tape.Value
}

// ComposeLoss builds the objective for one trial:
//
//	total = (cross_entropy + wf*kld_f + wz*kld_z) / batchSize
//
// kld_f is the closed-form KL of the factor posterior against a standard
// normal, SUMMED over latent dimensions. kld_z is the closed-form KL between
// the per-step posterior and the learned recurrent prior, AVERAGED over all
// timesteps and dimensions. The sum/mean asymmetry is deliberate: it
// reproduces the reference objective, and the weights default to 1 so the
// relative term scaling is preserved exactly. Rebalancing experiments go
// through wf/wz, never through changing the reductions.
//
// Extreme log-variances are not clamped; they surface as large or
// non-finite loss values, which is the intended observability for numeric
// degeneracies.
func ComposeLoss(out *Output, label, batchSize int, wf, wz float64) (Losses, error) {
	if out == nil {
		return Losses{}, NilArgError{"forward output"}
	}
	if label < 0 || label >= len(out.Logits) {
		return Losses{}, errors.Errorf("label %d outside [0, %d)", label, len(out.Logits))
	}
	if batchSize < 1 {
		return Losses{}, errors.Errorf("batch size must be >= 1 (%d)", batchSize)
	}

	ce := crossEntropy(out.Logits, label)
	klf := factorKL(out.F)
	klz := sequentialKL(out.ZPost, out.ZPrior)

	weighted := tape.Add(ce, tape.Add(
		tape.Mul(tape.New(wf), klf),
		tape.Mul(tape.New(wz), klz),
	))

	return Losses{
		Total:        tape.Div(weighted, tape.New(float64(batchSize))),
		CrossEntropy: ce,
		KLDF:         klf,
		KLDZ:         klz,
	}, nil
}

// Loss composes the objective with the model's configured KL weights at
// batch size 1, matching the one-trial-per-step training discipline.
func (m *Model) Loss(out *Output, label int) (Losses, error) {
	return ComposeLoss(out, label, 1, m.cfg.KLFWeight, m.cfg.KLZWeight)
}

// crossEntropy is the softmax cross-entropy of the logits against the target
// class, with the usual max subtraction for stability.
func crossEntropy(logits []*tape.Value, label int) *tape.Value {
	maxVal := logits[0].Data
	for _, l := range logits[1:] {
		if l.Data > maxVal {
			maxVal = l.Data
		}
	}

	exps := make([]*tape.Value, len(logits))
	for i, l := range logits {
		exps[i] = tape.Exp(tape.Sub(l, tape.New(maxVal)))
	}
	total := tape.Sum(exps)

	return tape.Neg(tape.Log(tape.Div(exps[label], total)))
}

// factorKL is KL(q(f) || N(0, I)) in closed form, summed over dimensions:
//
//	-0.5 * sum(1 + logvar - mean^2 - exp(logvar))
func factorKL(f Gaussian) *tape.Value {
	terms := make([]*tape.Value, len(f.Mean))
	for i := range f.Mean {
		inner := tape.Sub(
			tape.Add(tape.New(1), f.Logvar[i]),
			tape.Add(tape.Square(f.Mean[i]), tape.Exp(f.Logvar[i])),
		)
		terms[i] = inner
	}
	return tape.Mul(tape.New(-0.5), tape.Sum(terms))
}

// sequentialKL is the closed-form KL between two diagonal Gaussians,
// averaged over every (timestep, dimension) element:
//
//	0.5 * mean( p_lv - q_lv + (exp(q_lv) + (q_m - p_m)^2) / exp(p_lv) - 1 )
//
// with q the posterior and p the recurrent prior.
func sequentialKL(post, prior []Gaussian) *tape.Value {
	var terms []*tape.Value
	for t := range post {
		q, p := post[t], prior[t]
		for i := range q.Mean {
			diff := tape.Square(tape.Sub(q.Mean[i], p.Mean[i]))
			ratio := tape.Div(tape.Add(tape.Exp(q.Logvar[i]), diff), tape.Exp(p.Logvar[i]))
			term := tape.Sub(
				tape.Add(tape.Sub(p.Logvar[i], q.Logvar[i]), ratio),
				tape.New(1),
			)
			terms = append(terms, term)
		}
	}

	return tape.Mul(tape.New(0.5), tape.Div(tape.Sum(terms), tape.New(float64(len(terms)))))
}
