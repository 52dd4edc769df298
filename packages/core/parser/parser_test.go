package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStory = `A story about checking out.
Spread over two lines.

Meta:
@theme checkout
@smoke

Narrative:
In order to buy things
As a customer
I want to check out my cart

Scenario: Successful checkout
Meta:
@fast

GivenStories: setup/cart.story, setup/user.story#{0}

Given a cart with 2 items
When I check out
Then the order total is <total>
And a receipt is issued

Examples:
|total|
|42.00|
|17.50|

!-- trailing comment
Scenario: Empty cart
Given an empty cart
When I check out
Then checkout is refused
`

func TestParseStory(t *testing.T) {
	story, err := New().ParseStory(sampleStory, "checkout.story")
	require.NoError(t, err)

	assert.Equal(t, "checkout.story", story.Path)
	assert.Equal(t, "A story about checking out.\nSpread over two lines.", story.Description)
	assert.Equal(t, "checkout", story.Meta.Property("theme"))
	_, hasSmoke := story.Meta.Value("smoke")
	assert.True(t, hasSmoke)

	assert.Equal(t, "buy things", story.Narrative.InOrderTo)
	assert.Equal(t, "customer", story.Narrative.AsA)
	assert.Equal(t, "check out my cart", story.Narrative.IWantTo)

	require.Len(t, story.Scenarios, 2)

	first := story.Scenarios[0]
	assert.Equal(t, "Successful checkout", first.Title)
	_, hasFast := first.Meta.Value("fast")
	assert.True(t, hasFast)
	assert.Equal(t, []string{"setup/cart.story", "setup/user.story"}, first.GivenStories.Paths())
	assert.True(t, first.GivenStories.RequireParameters())
	assert.Equal(t, []string{
		"Given a cart with 2 items",
		"When I check out",
		"Then the order total is <total>",
		"And a receipt is issued",
	}, first.Steps)
	assert.Equal(t, 2, first.Table.RowCount())
	assert.Equal(t, "42.00", first.Table.Row(0)["total"])

	second := story.Scenarios[1]
	assert.Equal(t, "Empty cart", second.Title)
	assert.Len(t, second.Steps, 3)
	assert.Equal(t, 0, second.Table.RowCount())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"non-step line in scenario", "Scenario: s\nnot a step", 2},
		{"table arity mismatch", "Scenario: s\nGiven x\nExamples:\n|a|b|\n|1|", 5},
		{"meta without at-sign", "Meta: broken", 1},
		{"narrative after scenario", "Scenario: s\nNarrative:", 2},
		{"given stories outside scenario", "GivenStories: a.story", 1},
		{"examples outside scenario", "Examples:", 1},
		{"junk narrative line", "Narrative:\nnonsense here", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ParseStory(tt.text, "bad.story")
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "bad.story", parseErr.File)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	story, err := New().ParseStory("!-- a comment\n\nScenario: s\n!-- another\nGiven x\n", "c.story")
	require.NoError(t, err)
	require.Len(t, story.Scenarios, 1)
	assert.Equal(t, []string{"Given x"}, story.Scenarios[0].Steps)
}

func TestMetaTagsOnOneLine(t *testing.T) {
	story, err := New().ParseStory("Meta: @a one @b @c three\n\nScenario: s\nGiven x\n", "m.story")
	require.NoError(t, err)
	assert.Equal(t, "one", story.Meta.Property("a"))
	assert.Equal(t, "", story.Meta.Property("b"))
	assert.Equal(t, "three", story.Meta.Property("c"))
}

func TestParseErrorMessageIncludesPosition(t *testing.T) {
	err := &ParseError{File: "x.story", Line: 7, Message: "oops"}
	assert.Equal(t, "x.story:7: oops", err.Error())
}
