package engine

import (
	"strings"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// MetaFilter decides whether a story or scenario with the given meta is
// allowed to run.
type MetaFilter interface {
	Allow(meta model.Meta) bool
	String() string
}

// EmptyFilter allows everything.
var EmptyFilter MetaFilter = emptyFilter{}

type emptyFilter struct{}

func (emptyFilter) Allow(model.Meta) bool { return true }
func (emptyFilter) String() string        { return "" }

// NewMetaFilter parses a filter expression of +tag/-tag terms, e.g.
// "+smoke -skip" or "+env dev". A tag term may carry a value; "*" matches
// any value. Meta is allowed when it matches no exclude term and, if any
// include terms exist, at least one of them.
func NewMetaFilter(expr string) MetaFilter {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return EmptyFilter
	}
	f := &tagFilter{expr: expr}
	for _, term := range splitTerms(expr) {
		switch {
		case strings.HasPrefix(term.name, "+"):
			term.name = strings.TrimPrefix(term.name, "+")
			f.include = append(f.include, term)
		case strings.HasPrefix(term.name, "-"):
			term.name = strings.TrimPrefix(term.name, "-")
			f.exclude = append(f.exclude, term)
		default:
			f.include = append(f.include, term)
		}
	}
	return f
}

type tagPattern struct {
	name  string
	value string
}

func (p tagPattern) matches(meta model.Meta) bool {
	value, ok := meta.Value(p.name)
	if !ok {
		return false
	}
	if p.value == "" || p.value == "*" {
		return true
	}
	return value == p.value
}

type tagFilter struct {
	expr    string
	include []tagPattern
	exclude []tagPattern
}

func (f *tagFilter) Allow(meta model.Meta) bool {
	for _, p := range f.exclude {
		if p.matches(meta) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if p.matches(meta) {
			return true
		}
	}
	return false
}

func (f *tagFilter) String() string {
	return f.expr
}

// splitTerms groups a sign-prefixed tag name with the value words that
// follow it, so "+env dev -skip" yields {+env dev} and {-skip}.
func splitTerms(expr string) []tagPattern {
	var terms []tagPattern
	for _, word := range strings.Fields(expr) {
		if strings.HasPrefix(word, "+") || strings.HasPrefix(word, "-") {
			terms = append(terms, tagPattern{name: word})
			continue
		}
		if len(terms) == 0 {
			terms = append(terms, tagPattern{name: "+" + word})
			continue
		}
		last := &terms[len(terms)-1]
		if last.value == "" {
			last.value = word
		} else {
			last.value += " " + word
		}
	}
	return terms
}
