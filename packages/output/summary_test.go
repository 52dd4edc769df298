package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

func TestSummaryCounts(t *testing.T) {
	s := NewSummary()
	s.BeforeStory(&model.Story{Path: "a.story"}, false)
	s.BeforeStory(&model.Story{Path: "pre.story"}, true)
	s.BeforeScenario("one")
	s.Successful("step 1")
	s.Successful("step 2")
	s.Failed("step 3", errors.New("boom"))
	s.NotPerformed("step 4")
	s.Pending("step 5")
	s.ScenarioNotAllowed(&model.Scenario{Title: "skipped"}, "-wip")

	assert.Equal(t, 1, s.Stories)
	assert.Equal(t, 1, s.Scenarios)
	assert.Equal(t, 2, s.StepsPerformed)
	assert.Equal(t, 1, s.StepsFailed)
	assert.Equal(t, 1, s.StepsPending)
	assert.Equal(t, 1, s.StepsNotPerformed)
	assert.Equal(t, 1, s.Excluded)
	assert.False(t, s.Passed())
	assert.Equal(t, []string{"step 3: boom"}, s.FailureMessages)
}

func TestSummaryPassed(t *testing.T) {
	s := NewSummary()
	s.Successful("step")
	s.Pending("pending step")
	assert.True(t, s.Passed())

	s.Cancelled()
	assert.False(t, s.Passed())
}

func TestSummaryPrint(t *testing.T) {
	s := NewSummary()
	s.BeforeStory(&model.Story{Path: "a.story"}, false)
	s.BeforeScenario("one")
	s.Successful("step")

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "1 stories")
	assert.Contains(t, out, "1 scenarios")
	assert.Contains(t, out, "1")
}
