package output

import (
	"bytes"
	"encoding/xml"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

func TestJUnitReporterSuitesAndCases(t *testing.T) {
	var buf bytes.Buffer
	r := NewJUnitReporter(JUnitWithWriter(&buf))

	r.BeforeStory(&model.Story{Path: "checkout.story"}, false)
	r.BeforeScenario("passing")
	r.Successful("Given a cart")
	r.AfterScenario()
	r.BeforeScenario("failing")
	r.Failed("When I check out", errors.New("boom"))
	r.AfterScenario()
	r.BeforeScenario("pending")
	r.Pending("When nothing matches")
	r.AfterScenario()
	r.AfterStory(false)
	r.InvokeDelayed()

	var out JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, 3, out.Tests)
	assert.Equal(t, 1, out.Failures)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.TestSuites, 1)

	suite := out.TestSuites[0]
	assert.Equal(t, "checkout.story", suite.Name)
	require.Len(t, suite.TestCases, 3)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Equal(t, "When I check out", suite.TestCases[1].Failure.Message)
	assert.Contains(t, suite.TestCases[1].Failure.Content, "boom")
	require.NotNil(t, suite.TestCases[2].Skipped)
}

func TestJUnitReporterAttributesGivenStoryFailureToScenario(t *testing.T) {
	var buf bytes.Buffer
	r := NewJUnitReporter(JUnitWithWriter(&buf))

	r.BeforeStory(&model.Story{Path: "main.story"}, false)
	r.BeforeScenario("main")
	r.BeforeStory(&model.Story{Path: "pre.story"}, true)
	r.BeforeScenario("setup")
	r.Failed("Given setup done", errors.New("boom"))
	r.AfterScenario()
	r.AfterStory(true)
	r.NotPerformed("When main runs")
	r.AfterScenario()
	r.AfterStory(false)
	r.InvokeDelayed()

	var out JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &out))

	// the nested given story contributes no extra suite or testcase
	require.Len(t, out.TestSuites, 1)
	suite := out.TestSuites[0]
	require.Len(t, suite.TestCases, 1)
	assert.Equal(t, "main", suite.TestCases[0].Name)
	require.NotNil(t, suite.TestCases[0].Failure)
	assert.Equal(t, "Given setup done", suite.TestCases[0].Failure.Message)
}
