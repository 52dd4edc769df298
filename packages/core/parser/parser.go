package parser

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// ParseError reports a syntax problem with file position.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parser parses story text into the model. The zero value is ready to use;
// it also satisfies the engine's StoryParser contract.
type Parser struct{}

// New returns a story parser.
func New() *Parser {
	return &Parser{}
}

// ParseStory parses the story grammar:
//
//	free description lines
//	Meta: @tag value ...
//	Narrative:
//	In order to ... / As a ... / I want to ...
//	Scenario: title
//	Meta: @tag
//	GivenStories: path1, path2#{0}
//	Given|When|Then|And steps
//	Examples:
//	|name|value|
//
// Lines starting with !-- are comments.
func (p *Parser) ParseStory(text, path string) (*model.Story, error) {
	s := &stateParser{path: path, story: &model.Story{Path: path}}
	for i, raw := range strings.Split(text, "\n") {
		if err := s.line(i+1, raw); err != nil {
			return nil, err
		}
	}
	s.flushScenario()
	return s.story, nil
}

type section int

const (
	sectionDescription section = iota
	sectionStoryMeta
	sectionNarrative
	sectionScenario
	sectionScenarioMeta
	sectionExamples
)

type stateParser struct {
	path    string
	story   *model.Story
	section section

	scenario     *model.Scenario
	tableHeaders []string
	tableRows    [][]string

	description []string
}

func (s *stateParser) line(n int, raw string) error {
	line := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(line, "!--"):
		return nil
	case line == "":
		if s.section == sectionStoryMeta || s.section == sectionScenarioMeta {
			s.endMeta()
		}
		return nil
	case strings.HasPrefix(line, "Scenario:"):
		s.flushScenario()
		s.scenario = &model.Scenario{Title: strings.TrimSpace(strings.TrimPrefix(line, "Scenario:"))}
		s.section = sectionScenario
		return nil
	case line == "Narrative:":
		if s.scenario != nil {
			return &ParseError{File: s.path, Line: n, Message: "narrative must precede scenarios"}
		}
		s.section = sectionNarrative
		return nil
	case strings.HasPrefix(line, "Meta:"):
		if s.scenario != nil {
			s.section = sectionScenarioMeta
		} else {
			s.section = sectionStoryMeta
		}
		return s.metaTags(n, strings.TrimPrefix(line, "Meta:"))
	case strings.HasPrefix(line, "GivenStories:"):
		if s.scenario == nil {
			return &ParseError{File: s.path, Line: n, Message: "GivenStories outside a scenario"}
		}
		return s.givenStories(n, strings.TrimPrefix(line, "GivenStories:"))
	case line == "Examples:":
		if s.scenario == nil {
			return &ParseError{File: s.path, Line: n, Message: "Examples outside a scenario"}
		}
		s.section = sectionExamples
		return nil
	}

	switch s.section {
	case sectionStoryMeta, sectionScenarioMeta:
		return s.metaTags(n, line)
	case sectionNarrative:
		return s.narrativeLine(n, line)
	case sectionExamples:
		return s.tableLine(n, line)
	case sectionScenario:
		if !isStepLine(line) {
			return &ParseError{File: s.path, Line: n, Message: fmt.Sprintf("expected a step line, got %q", line)}
		}
		s.scenario.Steps = append(s.scenario.Steps, line)
		return nil
	default:
		s.description = append(s.description, line)
		return nil
	}
}

func (s *stateParser) endMeta() {
	if s.scenario != nil {
		s.section = sectionScenario
	} else {
		s.section = sectionDescription
	}
}

func (s *stateParser) metaTags(n int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !strings.HasPrefix(text, "@") {
		return &ParseError{File: s.path, Line: n, Message: fmt.Sprintf("meta tags must start with @, got %q", text)}
	}
	for _, tag := range strings.Split(text, "@") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		name, value, _ := strings.Cut(tag, " ")
		meta := s.storyOrScenarioMeta().With(name, strings.TrimSpace(value))
		s.setStoryOrScenarioMeta(meta)
	}
	return nil
}

func (s *stateParser) storyOrScenarioMeta() model.Meta {
	if s.scenario != nil {
		return s.scenario.Meta
	}
	return s.story.Meta
}

func (s *stateParser) setStoryOrScenarioMeta(meta model.Meta) {
	if s.scenario != nil {
		s.scenario.Meta = meta
	} else {
		s.story.Meta = meta
	}
}

func (s *stateParser) narrativeLine(n int, line string) error {
	switch {
	case strings.HasPrefix(line, "In order to"):
		s.story.Narrative.InOrderTo = strings.TrimSpace(strings.TrimPrefix(line, "In order to"))
	case strings.HasPrefix(line, "As a"):
		s.story.Narrative.AsA = strings.TrimSpace(strings.TrimPrefix(line, "As a"))
	case strings.HasPrefix(line, "I want to"):
		s.story.Narrative.IWantTo = strings.TrimSpace(strings.TrimPrefix(line, "I want to"))
	default:
		return &ParseError{File: s.path, Line: n, Message: fmt.Sprintf("unexpected narrative line %q", line)}
	}
	return nil
}

func (s *stateParser) givenStories(n int, text string) error {
	var refs []model.GivenStory
	for _, ref := range strings.Split(text, ",") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		path, anchor, _ := strings.Cut(ref, "#")
		refs = append(refs, model.GivenStory{Path: strings.TrimSpace(path), Anchor: anchor})
	}
	s.scenario.GivenStories = model.NewGivenStories(refs...)
	return nil
}

func (s *stateParser) tableLine(n int, line string) error {
	if !strings.HasPrefix(line, "|") {
		return &ParseError{File: s.path, Line: n, Message: fmt.Sprintf("expected a table row, got %q", line)}
	}
	cells := splitTableRow(line)
	if s.tableHeaders == nil {
		s.tableHeaders = cells
		return nil
	}
	if len(cells) != len(s.tableHeaders) {
		return &ParseError{
			File: s.path, Line: n,
			Message: fmt.Sprintf("table row has %d cells, header has %d", len(cells), len(s.tableHeaders)),
		}
	}
	s.tableRows = append(s.tableRows, cells)
	return nil
}

func (s *stateParser) flushScenario() {
	if s.scenario == nil {
		s.story.Description = strings.Join(s.description, "\n")
		return
	}
	if s.tableHeaders != nil {
		s.scenario.Table = model.NewExamplesTable(s.tableHeaders, s.tableRows...)
		s.tableHeaders = nil
		s.tableRows = nil
	}
	s.story.Scenarios = append(s.story.Scenarios, *s.scenario)
	s.scenario = nil
	s.section = sectionDescription
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

var stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But "}

func isStepLine(line string) bool {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
