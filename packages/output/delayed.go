package output

import (
	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// Delayed buffers all notifications and replays them against the delegate
// when InvokeDelayed is called. The engine invokes the flush exactly once
// per non-nested story completion, which keeps the output of concurrently
// running stories from interleaving.
type Delayed struct {
	delegate engine.Reporter
	delayed  []func(engine.Reporter)
}

// NewDelayed wraps a reporter with buffering.
func NewDelayed(delegate engine.Reporter) *Delayed {
	return &Delayed{delegate: delegate}
}

// InvokeDelayed replays all buffered notifications in order and clears the
// buffer.
func (d *Delayed) InvokeDelayed() {
	for _, fn := range d.delayed {
		fn(d.delegate)
	}
	d.delayed = nil
	if nested, ok := d.delegate.(engine.DelayedReporter); ok {
		nested.InvokeDelayed()
	}
}

func (d *Delayed) record(fn func(engine.Reporter)) {
	d.delayed = append(d.delayed, fn)
}

func (d *Delayed) BeforeStory(story *model.Story, givenStory bool) {
	d.record(func(r engine.Reporter) { r.BeforeStory(story, givenStory) })
}

func (d *Delayed) AfterStory(givenStory bool) {
	d.record(func(r engine.Reporter) { r.AfterStory(givenStory) })
}

func (d *Delayed) Narrative(n model.Narrative) {
	d.record(func(r engine.Reporter) { r.Narrative(n) })
}

func (d *Delayed) StoryNotAllowed(story *model.Story, filter string) {
	d.record(func(r engine.Reporter) { r.StoryNotAllowed(story, filter) })
}

func (d *Delayed) BeforeScenario(title string) {
	d.record(func(r engine.Reporter) { r.BeforeScenario(title) })
}

func (d *Delayed) ScenarioMeta(meta model.Meta) {
	d.record(func(r engine.Reporter) { r.ScenarioMeta(meta) })
}

func (d *Delayed) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	d.record(func(r engine.Reporter) { r.ScenarioNotAllowed(scenario, filter) })
}

func (d *Delayed) AfterScenario() {
	d.record(func(r engine.Reporter) { r.AfterScenario() })
}

func (d *Delayed) GivenStories(paths []string) {
	d.record(func(r engine.Reporter) { r.GivenStories(paths) })
}

func (d *Delayed) BeforeExamples(steps []string, table model.ExamplesTable) {
	d.record(func(r engine.Reporter) { r.BeforeExamples(steps, table) })
}

func (d *Delayed) Example(row map[string]string) {
	d.record(func(r engine.Reporter) { r.Example(row) })
}

func (d *Delayed) AfterExamples() {
	d.record(func(r engine.Reporter) { r.AfterExamples() })
}

func (d *Delayed) Successful(step string) {
	d.record(func(r engine.Reporter) { r.Successful(step) })
}

func (d *Delayed) Pending(step string) {
	d.record(func(r engine.Reporter) { r.Pending(step) })
}

func (d *Delayed) NotPerformed(step string) {
	d.record(func(r engine.Reporter) { r.NotPerformed(step) })
}

func (d *Delayed) Failed(step string, cause error) {
	d.record(func(r engine.Reporter) { r.Failed(step, cause) })
}

func (d *Delayed) PendingMethods(methods []string) {
	d.record(func(r engine.Reporter) { r.PendingMethods(methods) })
}

func (d *Delayed) Restarted(step string, reason error) {
	d.record(func(r engine.Reporter) { r.Restarted(step, reason) })
}

// Cancelled is delivered immediately as well as on flush, since a cancelled
// run may never reach its flush point.
func (d *Delayed) Cancelled() {
	d.delegate.Cancelled()
}

func (d *Delayed) DryRun() {
	d.record(func(r engine.Reporter) { r.DryRun() })
}
