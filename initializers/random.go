package initializers

// Initializer dictates how the weights of a model component are set, given a
// blank slice to hold them.
type Initializer interface {
	Set(ws []float64)
}

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the
// weights. There is no scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

// Set is the implementation of Initializer
func (r random) Set(ws []float64) {
	for i := 0; i < len(ws); i++ {
		ws[i] = r.Gen()
	}
}

// Zero returns an Initializer that leaves all weights at zero, which is the
// conventional starting point for biases.
func Zero() zero {
	return zero(0)
}

type zero int8

// Set is the implementation of Initializer
func (z zero) Set(ws []float64) {
	for i := range ws {
		ws[i] = 0
	}
}
