package engine

// FailureStrategy decides, at story completion, whether an accumulated
// failure is surfaced to the caller or absorbed. A nil return absorbs the
// failure; a non-nil return propagates it.
type FailureStrategy func(f *Failure) error

// SilentlyAbsorb absorbs any failure. It is also the default mid-run
// strategy so that all remaining steps are still visited for reporting.
func SilentlyAbsorb(f *Failure) error {
	return nil
}

// Rethrow surfaces the failure to the caller.
func Rethrow(f *Failure) error {
	if f == nil {
		return nil
	}
	return f
}

// PassOnPendingSteps tolerates pending-step discoveries.
func PassOnPendingSteps(f *Failure) error {
	return nil
}

// FailOnPendingSteps escalates pending-step discoveries.
func FailOnPendingSteps(f *Failure) error {
	if f == nil {
		return nil
	}
	return f
}
