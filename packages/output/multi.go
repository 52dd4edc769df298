package output

import (
	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// Multi fans notifications out to several reporters in order.
type Multi struct {
	reporters []engine.Reporter
}

// NewMulti combines reporters.
func NewMulti(reporters ...engine.Reporter) *Multi {
	return &Multi{reporters: reporters}
}

// InvokeDelayed flushes every delegate that buffers.
func (m *Multi) InvokeDelayed() {
	for _, r := range m.reporters {
		if d, ok := r.(engine.DelayedReporter); ok {
			d.InvokeDelayed()
		}
	}
}

func (m *Multi) each(fn func(engine.Reporter)) {
	for _, r := range m.reporters {
		fn(r)
	}
}

func (m *Multi) BeforeStory(story *model.Story, givenStory bool) {
	m.each(func(r engine.Reporter) { r.BeforeStory(story, givenStory) })
}

func (m *Multi) AfterStory(givenStory bool) {
	m.each(func(r engine.Reporter) { r.AfterStory(givenStory) })
}

func (m *Multi) Narrative(n model.Narrative) {
	m.each(func(r engine.Reporter) { r.Narrative(n) })
}

func (m *Multi) StoryNotAllowed(story *model.Story, filter string) {
	m.each(func(r engine.Reporter) { r.StoryNotAllowed(story, filter) })
}

func (m *Multi) BeforeScenario(title string) {
	m.each(func(r engine.Reporter) { r.BeforeScenario(title) })
}

func (m *Multi) ScenarioMeta(meta model.Meta) {
	m.each(func(r engine.Reporter) { r.ScenarioMeta(meta) })
}

func (m *Multi) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	m.each(func(r engine.Reporter) { r.ScenarioNotAllowed(scenario, filter) })
}

func (m *Multi) AfterScenario() {
	m.each(func(r engine.Reporter) { r.AfterScenario() })
}

func (m *Multi) GivenStories(paths []string) {
	m.each(func(r engine.Reporter) { r.GivenStories(paths) })
}

func (m *Multi) BeforeExamples(steps []string, table model.ExamplesTable) {
	m.each(func(r engine.Reporter) { r.BeforeExamples(steps, table) })
}

func (m *Multi) Example(row map[string]string) {
	m.each(func(r engine.Reporter) { r.Example(row) })
}

func (m *Multi) AfterExamples() {
	m.each(func(r engine.Reporter) { r.AfterExamples() })
}

func (m *Multi) Successful(step string) {
	m.each(func(r engine.Reporter) { r.Successful(step) })
}

func (m *Multi) Pending(step string) {
	m.each(func(r engine.Reporter) { r.Pending(step) })
}

func (m *Multi) NotPerformed(step string) {
	m.each(func(r engine.Reporter) { r.NotPerformed(step) })
}

func (m *Multi) Failed(step string, cause error) {
	m.each(func(r engine.Reporter) { r.Failed(step, cause) })
}

func (m *Multi) PendingMethods(methods []string) {
	m.each(func(r engine.Reporter) { r.PendingMethods(methods) })
}

func (m *Multi) Restarted(step string, reason error) {
	m.each(func(r engine.Reporter) { r.Restarted(step, reason) })
}

func (m *Multi) Cancelled() {
	m.each(func(r engine.Reporter) { r.Cancelled() })
}

func (m *Multi) DryRun() {
	m.each(func(r engine.Reporter) { r.DryRun() })
}
