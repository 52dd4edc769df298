package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

func TestJSONReporterNestsGivenStories(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(JSONWithWriter(&buf))

	r.BeforeStory(&model.Story{Path: "main.story"}, false)
	r.BeforeScenario("main scenario")

	r.BeforeStory(&model.Story{Path: "pre.story"}, true)
	r.BeforeScenario("setup")
	r.Successful("Given setup done")
	r.AfterScenario()
	r.AfterStory(true)

	r.Successful("When main runs")
	r.Failed("Then it checks out", errors.New("boom"))
	r.AfterScenario()
	r.AfterStory(false)
	r.InvokeDelayed()

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Stories, 1)
	story := out.Stories[0]
	assert.Equal(t, "main.story", story.Path)
	require.Len(t, story.Scenarios, 1)

	scenario := story.Scenarios[0]
	assert.Equal(t, "main scenario", scenario.Title)
	require.Len(t, scenario.GivenStories, 1)
	assert.Equal(t, "pre.story", scenario.GivenStories[0].Path)
	require.Len(t, scenario.GivenStories[0].Scenarios, 1)
	assert.Equal(t, "Given setup done", scenario.GivenStories[0].Scenarios[0].Steps[0].Text)

	// the parent scenario's own steps follow the given story
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, "failed", scenario.Steps[1].Status)
	assert.Equal(t, "boom", scenario.Steps[1].Error)

	assert.Equal(t, 2, out.Summary.Performed)
	assert.Equal(t, 1, out.Summary.Failed)
}

func TestJSONReporterExamples(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(JSONWithWriter(&buf))

	r.BeforeStory(&model.Story{Path: "a.story"}, false)
	r.BeforeScenario("rows")
	r.Example(map[string]string{"value": "1"})
	r.Successful("Given value 1")
	r.Example(map[string]string{"value": "2"})
	r.Pending("Given value 2")
	r.AfterExamples()
	r.AfterScenario()
	r.AfterStory(false)
	r.InvokeDelayed()

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	scenario := out.Stories[0].Scenarios[0]
	require.Len(t, scenario.Examples, 2)
	assert.Equal(t, "1", scenario.Examples[0].Parameters["value"])
	assert.Equal(t, "performed", scenario.Examples[0].Steps[0].Status)
	assert.Equal(t, "pending", scenario.Examples[1].Steps[0].Status)
	assert.Empty(t, scenario.Steps)
}
