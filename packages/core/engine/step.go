package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// Stage distinguishes before and after lifecycle hooks.
type Stage int

const (
	StageBefore Stage = iota
	StageAfter
)

func (s Stage) String() string {
	if s == StageBefore {
		return "before"
	}
	return "after"
}

// Step is the smallest executable unit. Perform attempts the step; the
// context carries cancellation. DoNotPerform produces the report-but-skip
// outcome used once a run has failed.
type Step interface {
	Perform(ctx context.Context, storyFailure *Failure) Result
	DoNotPerform(storyFailure *Failure) Result
	String() string
}

// StepCollector builds the concrete step lists for hooks and scenario
// bodies. Candidate step providers are bound at collector construction;
// collectors are read-only at run time and safe to share across concurrent
// story executions.
type StepCollector interface {
	BeforeOrAfterStoriesSteps(stage Stage) []Step
	BeforeOrAfterStorySteps(story *model.Story, stage Stage, givenStory bool) []Step
	BeforeOrAfterScenarioSteps(meta model.Meta, stage Stage) []Step
	ScenarioSteps(scenario *model.Scenario, parameters map[string]string) []Step
}

// StoryLoader loads story text by path.
type StoryLoader interface {
	LoadStoryText(path string) (string, error)
}

// StoryParser parses story text into the model.
type StoryParser interface {
	ParseStory(text, path string) (*model.Story, error)
}

// PathCalculator resolves a given-story path relative to its parent story.
type PathCalculator interface {
	Calculate(parentPath, childPath string) string
}

// PendingStep is a step with no matching implementation. It carries whether
// the miss was already acknowledged (annotated) so stub generation can skip
// it. The previous non-And step text resolves the keyword of And steps.
type PendingStep struct {
	text      string
	previous  string
	annotated bool
}

// NewPendingStep builds a pending step.
func NewPendingStep(text, previousNonAndStep string, annotated bool) *PendingStep {
	return &PendingStep{text: text, previous: previousNonAndStep, annotated: annotated}
}

func (s *PendingStep) Perform(ctx context.Context, storyFailure *Failure) Result {
	return PendingResult(s.text)
}

func (s *PendingStep) DoNotPerform(storyFailure *Failure) Result {
	return PendingResult(s.text)
}

func (s *PendingStep) String() string {
	return s.text
}

// Annotated reports whether the pending step was already acknowledged.
func (s *PendingStep) Annotated() bool {
	return s.annotated
}

// Stub generates a registration snippet for the missing implementation.
func (s *PendingStep) Stub() string {
	keyword, rest := splitKeyword(s.text)
	if strings.EqualFold(keyword, "And") && s.previous != "" {
		keyword, _ = splitKeyword(s.previous)
	}
	var method string
	switch strings.ToLower(keyword) {
	case "when":
		method = "When"
	case "then":
		method = "Then"
	default:
		method = "Given"
	}
	return fmt.Sprintf("r.%s(%q, func(ctx context.Context, params map[string]string) error {\n\treturn errors.New(\"not yet implemented\")\n})", method, rest)
}

func splitKeyword(text string) (keyword, rest string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
