package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// JUnit XML structures

// JUnitTestSuites is the root element.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one story.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents one scenario.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a scenario failure.
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped or excluded scenario.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitReporter formats story runs as JUnit XML, written on flush.
type JUnitReporter struct {
	writer io.Writer
	start  time.Time

	suites    []JUnitTestSuite
	suite     *JUnitTestSuite
	testcase  *JUnitTestCase
	storyPath string
	depth     int
}

type JUnitOption func(*JUnitReporter)

func NewJUnitReporter(opts ...JUnitOption) *JUnitReporter {
	r := &JUnitReporter{
		writer: os.Stdout,
		start:  time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(r *JUnitReporter) {
		r.writer = w
	}
}

// InvokeDelayed writes the collected suites.
func (r *JUnitReporter) InvokeDelayed() {
	root := JUnitTestSuites{
		Name:      "storyspec",
		Time:      time.Since(r.start).Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	for _, s := range r.suites {
		root.Tests += s.Tests
		root.Failures += s.Failures
		root.Skipped += s.Skipped
		root.TestSuites = append(root.TestSuites, s)
	}
	fmt.Fprint(r.writer, xml.Header)
	enc := xml.NewEncoder(r.writer)
	enc.Indent("", "  ")
	_ = enc.Encode(root)
	fmt.Fprintln(r.writer)
}

func (r *JUnitReporter) BeforeStory(story *model.Story, givenStory bool) {
	if givenStory {
		// given-story outcomes are attributed to the referencing scenario
		r.depth++
		return
	}
	r.storyPath = story.Path
	r.suites = append(r.suites, JUnitTestSuite{Name: story.Path})
	r.suite = &r.suites[len(r.suites)-1]
	r.testcase = nil
}

func (r *JUnitReporter) AfterStory(givenStory bool) {
	if givenStory {
		r.depth--
		return
	}
	r.flushCase()
	r.suite = nil
}

func (r *JUnitReporter) Narrative(model.Narrative) {}

func (r *JUnitReporter) StoryNotAllowed(story *model.Story, filter string) {
	if r.suite != nil {
		r.suite.Skipped++
		r.suite.Tests++
		r.suite.TestCases = append(r.suite.TestCases, JUnitTestCase{
			Name:      "story",
			ClassName: story.Path,
			Skipped:   &JUnitSkipped{Message: "excluded by filter " + filter},
		})
	}
}

func (r *JUnitReporter) BeforeScenario(title string) {
	if r.depth > 0 {
		return
	}
	r.flushCase()
	r.testcase = &JUnitTestCase{Name: title, ClassName: r.storyPath}
}

func (r *JUnitReporter) ScenarioMeta(model.Meta) {}

func (r *JUnitReporter) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	if r.testcase != nil && r.depth == 0 {
		r.testcase.Skipped = &JUnitSkipped{Message: "excluded by filter " + filter}
	}
}

func (r *JUnitReporter) AfterScenario() {
	if r.depth == 0 {
		r.flushCase()
	}
}

func (r *JUnitReporter) flushCase() {
	if r.testcase == nil || r.suite == nil {
		return
	}
	r.suite.Tests++
	if r.testcase.Failure != nil {
		r.suite.Failures++
	}
	if r.testcase.Skipped != nil {
		r.suite.Skipped++
	}
	r.suite.TestCases = append(r.suite.TestCases, *r.testcase)
	r.testcase = nil
}

func (r *JUnitReporter) GivenStories([]string) {}

func (r *JUnitReporter) BeforeExamples([]string, model.ExamplesTable) {}

func (r *JUnitReporter) Example(map[string]string) {}

func (r *JUnitReporter) AfterExamples() {}

func (r *JUnitReporter) Successful(step string) {}

func (r *JUnitReporter) Pending(step string) {
	if r.testcase != nil && r.testcase.Failure == nil && r.testcase.Skipped == nil {
		r.testcase.Skipped = &JUnitSkipped{Message: "pending step: " + step}
	}
}

func (r *JUnitReporter) NotPerformed(step string) {}

func (r *JUnitReporter) Failed(step string, cause error) {
	if r.testcase != nil && r.testcase.Failure == nil {
		r.testcase.Failure = &JUnitFailure{
			Message: step,
			Type:    "StepFailure",
			Content: fmt.Sprintf("%v", cause),
		}
	}
}

func (r *JUnitReporter) PendingMethods([]string) {}

func (r *JUnitReporter) Restarted(string, error) {}

func (r *JUnitReporter) Cancelled() {}

func (r *JUnitReporter) DryRun() {}

var _ engine.DelayedReporter = (*JUnitReporter)(nil)
