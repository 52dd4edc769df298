package engine

// Status classifies the outcome of attempting one step.
type Status int

const (
	// StatusPerformed means the step executed successfully.
	StatusPerformed Status = iota
	// StatusNotPerformed means the step was skipped because an earlier
	// failure put the run into report-but-skip mode.
	StatusNotPerformed
	// StatusPending means no implementation matched the step.
	StatusPending
	// StatusFailed means the step executed and raised a failure.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPerformed:
		return "performed"
	case StatusNotPerformed:
		return "not performed"
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of attempting one step. Every result is described to
// the reporter whether or not the step actually executed.
type Result struct {
	Step   string
	Status Status
	Cause  *Failure
}

// PerformedResult reports a successful step.
func PerformedResult(step string) Result {
	return Result{Step: step, Status: StatusPerformed}
}

// NotPerformedResult reports a step skipped due to a prior failure.
func NotPerformedResult(step string, cause *Failure) Result {
	return Result{Step: step, Status: StatusNotPerformed, Cause: cause}
}

// PendingResult reports a step with no matching implementation. The carried
// cause is a PendingStepFound failure.
func PendingResult(step string) Result {
	return Result{
		Step:   step,
		Status: StatusPending,
		Cause:  NewFailure(&PendingStepFound{Step: step}),
	}
}

// FailedResult reports a step that raised a failure.
func FailedResult(step string, cause *Failure) Result {
	return Result{Step: step, Status: StatusFailed, Cause: cause}
}

// Failure returns the failure carried by a pending or failed result, nil
// otherwise. Not-performed results carry the prior failure for reporting but
// do not contribute a new one.
func (r Result) Failure() *Failure {
	switch r.Status {
	case StatusPending, StatusFailed:
		return r.Cause
	default:
		return nil
	}
}

// DescribeTo forwards the outcome to a reporter.
func (r Result) DescribeTo(reporter Reporter) {
	switch r.Status {
	case StatusPerformed:
		reporter.Successful(r.Step)
	case StatusNotPerformed:
		reporter.NotPerformed(r.Step)
	case StatusPending:
		reporter.Pending(r.Step)
	case StatusFailed:
		reporter.Failed(r.Step, r.Cause)
	}
}
