package model

// Narrative is the "In order to / As a / I want to" preamble of a story.
type Narrative struct {
	InOrderTo string
	AsA       string
	IWantTo   string
}

// IsEmpty reports whether the story declared no narrative.
func (n Narrative) IsEmpty() bool {
	return n.InOrderTo == "" && n.AsA == "" && n.IWantTo == ""
}

// Story is an ordered collection of scenarios identified by its path.
// Stories are immutable once parsed.
type Story struct {
	Path        string
	Description string
	Meta        Meta
	Narrative   Narrative
	Scenarios   []Scenario
}

// Scenario is an ordered sequence of step texts within a story, optionally
// data-driven through an examples table and optionally preceded by given
// stories.
type Scenario struct {
	Title        string
	Meta         Meta
	GivenStories GivenStories
	Table        ExamplesTable
	Steps        []string
}

// Parameterised reports whether the scenario should run once per examples
// row. A scenario whose given stories require externally supplied parameters
// is never treated as example-parameterised, even with a non-empty table.
func (s *Scenario) Parameterised() bool {
	return s.Table.RowCount() > 0 && !s.GivenStories.RequireParameters()
}
