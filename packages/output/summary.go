package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
	"github.com/fatih/color"
)

// Summary aggregates step and scenario counts across story runs. It is
// meant to be combined with other reporters through Multi and queried after
// the run for exit codes and notifications.
type Summary struct {
	engine.NopReporter

	start time.Time

	Stories           int
	Scenarios         int
	StepsPerformed    int
	StepsFailed       int
	StepsPending      int
	StepsNotPerformed int
	Excluded          int
	WasCancelled      bool

	FailureMessages []string
}

// NewSummary returns a summary reporter.
func NewSummary() *Summary {
	return &Summary{start: time.Now()}
}

func (s *Summary) BeforeStory(story *model.Story, givenStory bool) {
	if !givenStory {
		s.Stories++
	}
}

func (s *Summary) BeforeScenario(title string) {
	s.Scenarios++
}

func (s *Summary) StoryNotAllowed(story *model.Story, filter string) {
	s.Excluded++
}

func (s *Summary) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	s.Excluded++
}

func (s *Summary) Successful(step string) {
	s.StepsPerformed++
}

func (s *Summary) Pending(step string) {
	s.StepsPending++
}

func (s *Summary) NotPerformed(step string) {
	s.StepsNotPerformed++
}

func (s *Summary) Failed(step string, cause error) {
	s.StepsFailed++
	s.FailureMessages = append(s.FailureMessages, fmt.Sprintf("%s: %v", step, cause))
}

func (s *Summary) Cancelled() {
	s.WasCancelled = true
}

// Passed reports whether the run completed without failures, pending steps
// counting as tolerated.
func (s *Summary) Passed() bool {
	return s.StepsFailed == 0 && !s.WasCancelled
}

// Duration returns the elapsed time since the summary was created.
func (s *Summary) Duration() time.Duration {
	return time.Since(s.start)
}

// Print writes a one-screen overview of the run.
func (s *Summary) Print(w io.Writer) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %d stories, %d scenarios\n", bold("Ran"), s.Stories, s.Scenarios)
	fmt.Fprintf(w, "  %s %d", green("performed"), s.StepsPerformed)
	if s.StepsFailed > 0 {
		fmt.Fprintf(w, "  %s %d", red("failed"), s.StepsFailed)
	}
	if s.StepsPending > 0 {
		fmt.Fprintf(w, "  %s %d", yellow("pending"), s.StepsPending)
	}
	if s.StepsNotPerformed > 0 {
		fmt.Fprintf(w, "  %s %d", yellow("not performed"), s.StepsNotPerformed)
	}
	if s.Excluded > 0 {
		fmt.Fprintf(w, "  excluded %d", s.Excluded)
	}
	fmt.Fprintf(w, "  (%.2fs)\n", s.Duration().Seconds())
}
