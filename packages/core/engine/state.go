package engine

// State is the health of a story run: Healthy until a step fails, then
// Failed carrying the failure that caused the transition. Transitions only
// move forward within one run; only an explicit reset returns to Healthy.
type State struct {
	failure *Failure
}

// HealthyState is the state of a run with no failure yet.
func HealthyState() State {
	return State{}
}

// FailedState is the state of a run after the given failure.
func FailedState(f *Failure) State {
	return State{failure: f}
}

// Healthy reports whether no failure has occurred.
func (s State) Healthy() bool {
	return s.failure == nil
}

// Failure returns the failure that moved the run into the failed state, nil
// while healthy.
func (s State) Failure() *Failure {
	return s.failure
}
