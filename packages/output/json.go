package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// JSONOutput is the complete JSON report structure.
type JSONOutput struct {
	Stories  []JSONStory `json:"stories"`
	Summary  JSONSummary `json:"summary"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary holds the aggregate step counts.
type JSONSummary struct {
	Performed    int `json:"performed"`
	Failed       int `json:"failed"`
	Pending      int `json:"pending"`
	NotPerformed int `json:"notPerformed"`
}

// JSONStory is one story run.
type JSONStory struct {
	Path       string         `json:"path"`
	NotAllowed bool           `json:"notAllowed,omitempty"`
	DryRun     bool           `json:"dryRun,omitempty"`
	Cancelled  bool           `json:"cancelled,omitempty"`
	Scenarios  []JSONScenario `json:"scenarios,omitempty"`
}

// JSONScenario is one scenario run, including given-story runs executed as
// its prerequisites.
type JSONScenario struct {
	Title        string            `json:"title"`
	NotAllowed   bool              `json:"notAllowed,omitempty"`
	Meta         map[string]string `json:"meta,omitempty"`
	GivenStories []JSONStory       `json:"givenStories,omitempty"`
	Examples     []JSONExample     `json:"examples,omitempty"`
	Steps        []JSONStep        `json:"steps,omitempty"`
}

// JSONExample is one examples-table row run.
type JSONExample struct {
	Parameters map[string]string `json:"parameters"`
	Steps      []JSONStep        `json:"steps,omitempty"`
}

// JSONStep is one step outcome.
type JSONStep struct {
	Text   string `json:"text"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// JSONReporter builds a JSON report of story runs and writes it on flush.
type JSONReporter struct {
	writer io.Writer
	start  time.Time

	output JSONOutput

	// current positions; given stories push onto the story stack and park
	// the parent's current scenario on the scenario stack
	storyStack    []*JSONStory
	scenarioStack []*JSONScenario
	scenario      *JSONScenario
	example       *JSONExample
}

type JSONOption func(*JSONReporter)

func NewJSONReporter(opts ...JSONOption) *JSONReporter {
	r := &JSONReporter{
		writer: os.Stdout,
		start:  time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(r *JSONReporter) {
		r.writer = w
	}
}

// InvokeDelayed writes the report collected so far.
func (r *JSONReporter) InvokeDelayed() {
	r.output.Duration = time.Since(r.start).Seconds()
	r.output.Time = time.Now().Format(time.RFC3339)
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r.output)
}

func (r *JSONReporter) currentStory() *JSONStory {
	if len(r.storyStack) == 0 {
		r.storyStack = append(r.storyStack, &JSONStory{})
	}
	return r.storyStack[len(r.storyStack)-1]
}

func (r *JSONReporter) BeforeStory(story *model.Story, givenStory bool) {
	s := &JSONStory{Path: story.Path}
	if givenStory {
		r.storyStack = append(r.storyStack, s)
		r.scenarioStack = append(r.scenarioStack, r.scenario)
		r.scenario = nil
		r.example = nil
		return
	}
	r.storyStack = []*JSONStory{s}
	r.scenarioStack = nil
	r.scenario = nil
	r.example = nil
}

func (r *JSONReporter) AfterStory(givenStory bool) {
	if givenStory && len(r.storyStack) > 1 {
		done := r.storyStack[len(r.storyStack)-1]
		r.storyStack = r.storyStack[:len(r.storyStack)-1]
		r.scenario = r.scenarioStack[len(r.scenarioStack)-1]
		r.scenarioStack = r.scenarioStack[:len(r.scenarioStack)-1]
		if r.scenario != nil {
			r.scenario.GivenStories = append(r.scenario.GivenStories, *done)
		}
		return
	}
	if len(r.storyStack) == 1 {
		r.output.Stories = append(r.output.Stories, *r.storyStack[0])
		r.storyStack = nil
		r.scenario = nil
		r.example = nil
	}
}

func (r *JSONReporter) Narrative(model.Narrative) {}

func (r *JSONReporter) StoryNotAllowed(story *model.Story, filter string) {
	r.currentStory().NotAllowed = true
}

func (r *JSONReporter) BeforeScenario(title string) {
	story := r.currentStory()
	story.Scenarios = append(story.Scenarios, JSONScenario{Title: title})
	r.scenario = &story.Scenarios[len(story.Scenarios)-1]
	r.example = nil
}

func (r *JSONReporter) ScenarioMeta(meta model.Meta) {
	if r.scenario == nil || meta.IsEmpty() {
		return
	}
	r.scenario.Meta = map[string]string{}
	for _, name := range meta.Names() {
		r.scenario.Meta[name] = meta.Property(name)
	}
}

func (r *JSONReporter) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	if r.scenario != nil {
		r.scenario.NotAllowed = true
	}
}

func (r *JSONReporter) AfterScenario() {
	// scenario stays current until the next BeforeScenario so trailing
	// given-story runs can attach
	r.example = nil
}

func (r *JSONReporter) GivenStories(paths []string) {}

func (r *JSONReporter) BeforeExamples(steps []string, table model.ExamplesTable) {}

func (r *JSONReporter) Example(row map[string]string) {
	if r.scenario == nil {
		return
	}
	r.scenario.Examples = append(r.scenario.Examples, JSONExample{Parameters: row})
	r.example = &r.scenario.Examples[len(r.scenario.Examples)-1]
}

func (r *JSONReporter) AfterExamples() {
	r.example = nil
}

func (r *JSONReporter) addStep(step JSONStep) {
	switch step.Status {
	case "performed":
		r.output.Summary.Performed++
	case "failed":
		r.output.Summary.Failed++
	case "pending":
		r.output.Summary.Pending++
	case "not performed":
		r.output.Summary.NotPerformed++
	}
	if r.example != nil {
		r.example.Steps = append(r.example.Steps, step)
		return
	}
	if r.scenario != nil {
		r.scenario.Steps = append(r.scenario.Steps, step)
	}
}

func (r *JSONReporter) Successful(step string) {
	r.addStep(JSONStep{Text: step, Status: "performed"})
}

func (r *JSONReporter) Pending(step string) {
	r.addStep(JSONStep{Text: step, Status: "pending"})
}

func (r *JSONReporter) NotPerformed(step string) {
	r.addStep(JSONStep{Text: step, Status: "not performed"})
}

func (r *JSONReporter) Failed(step string, cause error) {
	s := JSONStep{Text: step, Status: "failed"}
	if cause != nil {
		s.Error = cause.Error()
	}
	r.addStep(s)
}

func (r *JSONReporter) PendingMethods(methods []string) {}

func (r *JSONReporter) Restarted(step string, reason error) {}

func (r *JSONReporter) Cancelled() {
	r.currentStory().Cancelled = true
}

func (r *JSONReporter) DryRun() {
	r.currentStory().DryRun = true
}

var _ engine.DelayedReporter = (*JSONReporter)(nil)
