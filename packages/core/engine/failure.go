package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Failure wraps the error raised by a step with a unique identifier so that
// "most important failure" comparisons stay reliable across rethrows.
type Failure struct {
	ID  uuid.UUID
	Err error
}

// NewFailure wraps an error. Wrapping an existing *Failure returns it
// unchanged so a cause keeps its identity through nested runs.
func NewFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Failure); ok {
		return f
	}
	return &Failure{ID: uuid.New(), Err: err}
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// PendingStepFound signals that a step had no matching implementation. It is
// the lowest-priority failure cause and is resolved by the pending-step
// strategy rather than the failure strategy.
type PendingStepFound struct {
	Step string
}

func (e *PendingStepFound) Error() string {
	return fmt.Sprintf("pending step found: %s", e.Step)
}

// IsPending reports whether a failure was caused by a pending step.
func IsPending(f *Failure) bool {
	if f == nil {
		return false
	}
	var pending *PendingStepFound
	return errors.As(f.Err, &pending)
}

// RestartSignal is a control signal, not a failure: it requests that the
// current scenario's step sequence be discarded, recollected, and re-run
// from the start.
type RestartSignal struct {
	Reason string
}

func (e *RestartSignal) Error() string {
	if e.Reason == "" {
		return "scenario restart requested"
	}
	return "scenario restart requested: " + e.Reason
}

// RestartScenario returns the error a step implementation raises to restart
// the enclosing scenario's step sequence.
func RestartScenario(reason string) error {
	return &RestartSignal{Reason: reason}
}

// mostImportantOf keeps the first-seen failure unless it was only a
// pending-step discovery, in which case any newer failure supersedes it.
// An established genuine failure is never overridden.
func mostImportantOf(current, next *Failure) *Failure {
	if current == nil {
		return next
	}
	if IsPending(current) && next != nil {
		return next
	}
	return current
}
