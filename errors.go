package dsvae

import "fmt"

// Error is a wrapper for specific types of errors for which there is no
// additional information necessary. These errors are defined as global
// variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrShortSequence     = Error{"sequence is shorter than the compressor window"}
	ErrEmptySplit        = Error{"training or evaluation split has no trials"}
	ErrShapeMismatch     = Error{"checkpoint shapes do not match the configured model"}
	ErrRegisterWrongType = Error{"type is not recognized"}
	ErrRegisterNilReturn = Error{"function return is nil"}
)

// NilArgError documents errors resulting from certain arguments provided to a
// function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError documents a per-call input whose dimensions do not match
// what the model was configured for.
type SizeMismatchError struct {
	Expected, Got int
	What          string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch for %s: expected %d, got %d", err.What, err.Expected, err.Got)
}
