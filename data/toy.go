package data

import (
	"math"
	"math/rand"
)

// Toy generates a deterministic synthetic dataset for smoke tests and demos.
// Each class carries a distinct amplitude and frequency in a slow sinusoid
// (the time-invariant content); each subject contributes a phase offset and
// per-step noise (the time-variant nuisance). Values stay in [-1, 1].
func Toy(subjects, trialsPer, classes, rawLength, channels int, seed int64) []Trial {
	rng := rand.New(rand.NewSource(seed))

	var trials []Trial
	for s := 0; s < subjects; s++ {
		phase := 2 * math.Pi * float64(s) / float64(subjects)

		for i := 0; i < trialsPer; i++ {
			label := (s*trialsPer + i) % classes
			amp := 0.3 + 0.6*float64(label)/float64(classes)
			freq := 2 + 3*float64(label)

			seq := make([][]float64, rawLength)
			for t := range seq {
				step := make([]float64, channels)
				base := amp * math.Sin(freq*2*math.Pi*float64(t)/float64(rawLength)+phase)
				for c := range step {
					v := base + 0.05*rng.NormFloat64() + 0.1*float64(c)/float64(channels)
					step[c] = math.Max(-1, math.Min(1, v))
				}
				seq[t] = step
			}

			trials = append(trials, Trial{Sequence: seq, Label: label, SubjectID: s})
		}
	}

	return trials
}
