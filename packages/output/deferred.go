package output

import (
	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
)

// Deferred hides a reporter's delayed-flush capability so a run-level report
// accumulates across every story instead of being flushed at each story
// boundary. Call Flush once when the whole run is finished.
type Deferred struct {
	engine.Reporter
}

// NewDeferred wraps a reporter.
func NewDeferred(r engine.Reporter) *Deferred {
	return &Deferred{Reporter: r}
}

// Flush invokes the wrapped reporter's delayed output, if it buffers.
func (d *Deferred) Flush() {
	if delayed, ok := d.Reporter.(engine.DelayedReporter); ok {
		delayed.InvokeDelayed()
	}
}
