package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the error taxonomy of a migration run.
// They are wrapped with context and checked with errors.Is.
var (
	// ErrConfiguration is returned for a missing or invalid flag or bound.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO is returned when an interchange or keystore file cannot be read or written.
	ErrIO = errors.New("io error")

	// ErrCredential is returned when no signing identity can be resolved.
	ErrCredential = errors.New("credential error")

	// ErrValidation is returned when a bounded field is outside [0,255] or not integral.
	ErrValidation = errors.New("validation error")

	// ErrSimulation is returned when the pre-submission call is rejected.
	ErrSimulation = errors.New("simulation error")

	// ErrSubmission is returned when a transaction fails to send or confirm.
	ErrSubmission = errors.New("submission error")

	// ErrAborted is returned when a push run stops on its first item failure.
	ErrAborted = errors.New("run aborted")

	// ErrTransient marks RPC failures that did not reach contract execution
	// (connection refused, timeouts, rate limiting).
	ErrTransient = errors.New("transient rpc failure")
)

// ItemError is an item-scoped failure of the push stage.
type ItemError struct {
	Index uint64
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("index %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
