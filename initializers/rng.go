package initializers

import "math/rand"

// RNG needs no explanation. It is used both for setting initial weights and
// as the injectable standard-normal noise source behind reparameterized
// sampling, so that tests can pin the randomness down.
type RNG interface {
	Gen() float64
}

type uniform struct {
	lower, upper float64
	src          *rand.Rand
}

// Uniform returns an RNG that gives values uniformly spread between its
// bounds, which can be set by Bounds.
func Uniform() *uniform {
	return &uniform{defaultValue["uniform-lower"], defaultValue["uniform-upper"], nil}
}

// Bounds sets the range of a Uniform RNG, returning it.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

// Seed makes the RNG draw from its own deterministic source instead of the
// shared global one.
func (u *uniform) Seed(seed int64) *uniform {
	u.src = rand.New(rand.NewSource(seed))
	return u
}

// Gen is the implementation of RNG for Uniform. It returns a random number.
func (u *uniform) Gen() float64 {
	f := rand.Float64
	if u.src != nil {
		f = u.src.Float64
	}
	return f()*(u.upper-u.lower) + u.lower
}

type normal struct {
	µ, σ float64
	src  *rand.Rand
}

// Normal returns an RNG that gives values within a normal distribution. The
// center and standard deviation can be set by Mean and SD, respectively.
func Normal() *normal {
	return &normal{defaultValue["normal-mean"], defaultValue["normal-sd"], nil}
}

// SD sets the value of the standard deviation of the normal distribution.
func (n *normal) SD(sd float64) *normal {
	n.σ = sd
	return n
}

// Mean sets the center of the normal distribution.
func (n *normal) Mean(mean float64) *normal {
	n.µ = mean
	return n
}

// Seed makes the RNG draw from its own deterministic source instead of the
// shared global one.
func (n *normal) Seed(seed int64) *normal {
	n.src = rand.New(rand.NewSource(seed))
	return n
}

// Gen is the implementation of RNG for Normal. It returns a random number.
func (n *normal) Gen() float64 {
	f := rand.NormFloat64
	if n.src != nil {
		f = n.src.NormFloat64
	}
	return f()*n.σ + n.µ
}

type truncNormal struct {
	*normal
	trunc float64
}

const defaultTrunc float64 = 2.0

// TruncNormal returns an RNG that gives values within a truncated normal
// distribution. The distribution is truncated at 2 standard deviations by
// default; Normal is embedded, so the center and standard deviation are set
// the same way as for Normal.
func TruncNormal() *truncNormal {
	return &truncNormal{Normal(), defaultTrunc}
}

// Trunc sets the number of standard deviations to keep on either side. Trunc
// will panic if given sds <= 0.
func (t *truncNormal) Trunc(sds float64) *truncNormal {
	if sds <= 0 {
		panic("given number of standard deviations to truncate after is <= 0")
	}

	t.trunc = sds
	return t
}

// Gen is the implementation of RNG for TruncNormal. It returns a random number.
func (t *truncNormal) Gen() float64 {
	f := rand.NormFloat64
	if t.src != nil {
		f = t.src.NormFloat64
	}

	for {
		v := f()
		if v < -t.trunc || v > t.trunc {
			continue
		}

		return v*t.σ + t.µ
	}
}
