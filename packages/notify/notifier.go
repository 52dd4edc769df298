// Package notify sends run summaries to external services when a run
// finishes.
package notify

import (
	"time"
)

// NotifyOn specifies when to send notifications.
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when stories fail
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when stories pass
	NotifySuccess NotifyOn = "success"
)

// RunSummary is the payload describing one run.
type RunSummary struct {
	Stories      int           `json:"stories"`
	Scenarios    int           `json:"scenarios"`
	Performed    int           `json:"performed"`
	Failed       int           `json:"failed"`
	Pending      int           `json:"pending"`
	NotPerformed int           `json:"not_performed"`
	Duration     time.Duration `json:"duration"`
	Failures     []string      `json:"failures,omitempty"`
	Cancelled    bool          `json:"cancelled,omitempty"`
}

// Passed reports whether the run had no failures.
func (s RunSummary) Passed() bool {
	return s.Failed == 0 && !s.Cancelled
}

// Notifier delivers run summaries.
type Notifier interface {
	Notify(summary RunSummary) error
}

// ShouldNotify decides whether a summary warrants a notification under the
// given policy.
func ShouldNotify(on NotifyOn, summary RunSummary) bool {
	switch on {
	case NotifyAlways:
		return true
	case NotifySuccess:
		return summary.Passed()
	case NotifyFailure:
		return !summary.Passed()
	default:
		return false
	}
}
