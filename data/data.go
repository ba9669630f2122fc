// Package data defines the trial format consumed by the model core and the
// subject-wise cross-validation split. The core is agnostic to how trials are
// stored; this package supplies a JSON loader and a synthetic generator as
// convenience suppliers.
package data

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// Trial is one EEG recording: a fixed-length sequence of per-timestep
// multi-channel feature vectors, the class label, and the id of the recorded
// subject. Trials are treated as immutable once loaded. Sequences are
// expected to arrive pre-normalized to [-1, 1] and zero-mean; that is a
// precondition of the data source, not enforced here.
type Trial struct {
	Sequence  [][]float64 `json:"sequence"` // [timestep][channel]
	Label     int         `json:"label"`
	SubjectID int         `json:"subject_id"`
}

// Validate checks that every trial matches the expected sequence length,
// channel count and label range. Any mismatch is a configuration error.
func Validate(trials []Trial, rawLength, channels, classes int) error {
	for i, tr := range trials {
		if len(tr.Sequence) != rawLength {
			return errors.Errorf("trial %d: sequence length %d, expected %d", i, len(tr.Sequence), rawLength)
		}
		for t, step := range tr.Sequence {
			if len(step) != channels {
				return errors.Errorf("trial %d: step %d has %d channels, expected %d", i, t, len(step), channels)
			}
		}
		if tr.Label < 0 || tr.Label >= classes {
			return errors.Errorf("trial %d: label %d outside [0, %d)", i, tr.Label, classes)
		}
	}

	return nil
}

// Subjects returns the sorted set of subject ids present in the trials.
func Subjects(trials []Trial) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, tr := range trials {
		if !seen[tr.SubjectID] {
			seen[tr.SubjectID] = true
			ids = append(ids, tr.SubjectID)
		}
	}

	sort.Ints(ids)
	return ids
}

// SplitBySubject partitions trials for leave-one-subject-out evaluation: all
// trials of heldOut form the evaluation set, everything else the training
// set. An empty side of the split is an error; a subject with zero trials
// cannot be evaluated and a training set of zero trials cannot learn.
func SplitBySubject(trials []Trial, heldOut int) (train, eval []Trial, err error) {
	for _, tr := range trials {
		if tr.SubjectID == heldOut {
			eval = append(eval, tr)
		} else {
			train = append(train, tr)
		}
	}

	if len(eval) == 0 {
		return nil, nil, errors.Errorf("subject %d has no trials", heldOut)
	}
	if len(train) == 0 {
		return nil, nil, errors.Errorf("no training trials left after holding out subject %d", heldOut)
	}

	return train, eval, nil
}

// LoadJSON reads a slice of trials from a JSON file.
func LoadJSON(path string) ([]Trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening trial file %q", path)
	}
	defer f.Close()

	var trials []Trial
	if err := json.NewDecoder(f).Decode(&trials); err != nil {
		return nil, errors.Wrapf(err, "decoding trial file %q", path)
	}

	return trials, nil
}
