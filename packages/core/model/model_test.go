package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaWithPreservesOrderAndReplaces(t *testing.T) {
	m := NewMeta("a", "1", "b", "2")
	assert.Equal(t, []string{"a", "b"}, m.Names())

	m2 := m.With("a", "3")
	assert.Equal(t, []string{"a", "b"}, m2.Names())
	assert.Equal(t, "3", m2.Property("a"))
	// the original is unchanged
	assert.Equal(t, "1", m.Property("a"))
}

func TestMetaInheritFromReceiverWins(t *testing.T) {
	scenario := NewMeta("env", "dev", "own", "x")
	story := NewMeta("env", "prod", "shared", "y")

	merged := scenario.InheritFrom(story)

	assert.Equal(t, "dev", merged.Property("env"))
	assert.Equal(t, "y", merged.Property("shared"))
	assert.Equal(t, "x", merged.Property("own"))
}

func TestMetaValue(t *testing.T) {
	m := NewMeta("smoke", "")
	v, ok := m.Value("smoke")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = m.Value("absent")
	assert.False(t, ok)
	assert.True(t, EmptyMeta.IsEmpty())
}

func TestExamplesTable(t *testing.T) {
	table := NewExamplesTable([]string{"name", "age"},
		[]string{"ada", "36"},
		[]string{"bob"},
	)

	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, map[string]string{"name": "ada", "age": "36"}, table.Row(0))
	// short rows pad with empty values
	assert.Equal(t, map[string]string{"name": "bob", "age": ""}, table.Row(1))

	// rows are copies
	table.Row(0)["name"] = "mutated"
	assert.Equal(t, "ada", table.Row(0)["name"])
}

func TestScenarioParameterised(t *testing.T) {
	table := NewExamplesTable([]string{"v"}, []string{"1"})

	plain := Scenario{Table: table}
	assert.True(t, plain.Parameterised())

	empty := Scenario{}
	assert.False(t, empty.Parameterised())

	anchored := Scenario{
		Table:        table,
		GivenStories: NewGivenStories(GivenStory{Path: "pre.story", Anchor: "{0}"}),
	}
	assert.False(t, anchored.Parameterised())
}

func TestGivenStories(t *testing.T) {
	g := NewGivenStories(
		GivenStory{Path: "a.story"},
		GivenStory{Path: "b.story", Anchor: "{0}"},
	)
	assert.Equal(t, []string{"a.story", "b.story"}, g.Paths())
	assert.True(t, g.RequireParameters())
	assert.False(t, NewGivenStories(GivenStory{Path: "a.story"}).RequireParameters())
}
