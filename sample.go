package dsvae

import (
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/initializers"
	"github.com/ns-aazarafrooz/EEG-Disetangled-Classification/tape"
)

// Gaussian is a diagonal Gaussian in log-variance parameterization. The
// log-variance form avoids a positivity constraint on the variance; exp() is
// applied only where the variance itself is needed.
type Gaussian struct {
	Mean, Logvar []*tape.Value
}

// Sample draws via the reparameterization trick:
//
//	sample = mean + exp(0.5*logvar) * noise
//
// The draw is a deterministic, differentiable function of mean and logvar
// given the external noise, so gradients flow to both parameters. noise must
// produce standard-normal values; it is injected rather than owned so tests
// can replace it. Every call draws fresh noise, one value per dimension, in
// dimension order.
func (g Gaussian) Sample(noise initializers.RNG) []*tape.Value {
	out := make([]*tape.Value, len(g.Mean))
	for i := range g.Mean {
		sd := tape.Exp(tape.Mul(tape.New(0.5), g.Logvar[i]))
		out[i] = tape.Add(g.Mean[i], tape.Mul(sd, tape.New(noise.Gen())))
	}
	return out
}
