package dsvae

// ArgMax returns the index of the largest value. Ties go to the earlier
// index.
func ArgMax(vs []float64) int {
	best := 0
	for i, v := range vs {
		if v > vs[best] {
			best = i
		}
	}
	return best
}

// CorrectHighest reports whether the predicted class (highest logit) matches
// the label.
func CorrectHighest(logits []float64, label int) bool {
	return ArgMax(logits) == label
}

// Every returns a function that satisfies TrainArgs.SendStatus.
// 'frequency' is in units of epochs.
//
// this function is self-explanatory from viewing the source
func Every(frequency int) func(int) bool {
	return func(epoch int) bool {
		return epoch%frequency == 0
	}
}
