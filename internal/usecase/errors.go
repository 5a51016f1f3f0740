package usecase

import (
	"errors"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrUnknownMethod         = errors.New("unknown method")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNoChange marks a valid invocation with nothing left to apply, such
	// as a replayed receipt.
	ErrNoChange = errors.New("no change")
)

// Class is the reported category of a rejected action.
type Class string

const (
	ClassNone              Class = ""
	ClassMalformedInput    Class = "malformed_input"
	ClassUnknownReference  Class = "unknown_reference"
	ClassInvalidTransition Class = "invalid_transition"
	ClassUnknownMethod     Class = "unknown_method"
	ClassStore             Class = "store"
)

// Classify maps a handler error onto the diagnostic taxonomy.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrDependencyUnavailable):
		return ClassStore
	case errors.Is(err, ErrInvalidInput), crerr.Is(err, gamecontract.ErrMalformedPayload):
		return ClassMalformedInput
	case errors.Is(err, ErrNotFound):
		return ClassUnknownReference
	case errors.Is(err, ErrInvalidTransition):
		return ClassInvalidTransition
	case errors.Is(err, ErrUnknownMethod):
		return ClassUnknownMethod
	default:
		return ClassStore
	}
}

func isNoChange(err error) bool {
	return errors.Is(err, ErrNoChange)
}
