package engine

import "github.com/abdul-hamid-achik/storyspec/packages/core/model"

// Reporter receives ordered lifecycle notifications for one story run.
// Implementations that buffer output should also implement DelayedReporter;
// the engine flushes it exactly once per non-nested story completion.
type Reporter interface {
	BeforeStory(story *model.Story, givenStory bool)
	AfterStory(givenStory bool)
	Narrative(narrative model.Narrative)
	StoryNotAllowed(story *model.Story, filter string)

	BeforeScenario(title string)
	ScenarioMeta(meta model.Meta)
	ScenarioNotAllowed(scenario *model.Scenario, filter string)
	AfterScenario()

	GivenStories(paths []string)

	BeforeExamples(steps []string, table model.ExamplesTable)
	Example(row map[string]string)
	AfterExamples()

	Successful(step string)
	Pending(step string)
	NotPerformed(step string)
	Failed(step string, cause error)

	PendingMethods(methods []string)
	Restarted(step string, reason error)
	Cancelled()
	DryRun()
}

// DelayedReporter buffers notifications until InvokeDelayed is called.
type DelayedReporter interface {
	Reporter
	InvokeDelayed()
}

// NopReporter discards all notifications. It can be embedded by reporters
// that only care about a subset of the lifecycle.
type NopReporter struct{}

func (NopReporter) BeforeStory(*model.Story, bool)                       {}
func (NopReporter) AfterStory(bool)                                      {}
func (NopReporter) Narrative(model.Narrative)                            {}
func (NopReporter) StoryNotAllowed(*model.Story, string)                 {}
func (NopReporter) BeforeScenario(string)                                {}
func (NopReporter) ScenarioMeta(model.Meta)                              {}
func (NopReporter) ScenarioNotAllowed(*model.Scenario, string)           {}
func (NopReporter) AfterScenario()                                       {}
func (NopReporter) GivenStories([]string)                                {}
func (NopReporter) BeforeExamples([]string, model.ExamplesTable)         {}
func (NopReporter) Example(map[string]string)                            {}
func (NopReporter) AfterExamples()                                       {}
func (NopReporter) Successful(string)                                    {}
func (NopReporter) Pending(string)                                       {}
func (NopReporter) NotPerformed(string)                                  {}
func (NopReporter) Failed(string, error)                                 {}
func (NopReporter) PendingMethods([]string)                              {}
func (NopReporter) Restarted(string, error)                              {}
func (NopReporter) Cancelled()                                           {}
func (NopReporter) DryRun()                                              {}
