package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// StepFunc is a step implementation. params holds the values captured from
// the step text plus the parameters of the current examples row.
type StepFunc func(ctx context.Context, params map[string]string) error

// HookFunc is a lifecycle hook implementation.
type HookFunc func(ctx context.Context) error

// Registry holds candidate step implementations and lifecycle hooks. It is
// populated once at startup and read-only afterwards, so it is safe to share
// across concurrently running stories.
type Registry struct {
	defs []*definition

	beforeStories  []hook
	afterStories   []hook
	beforeStory    []hook
	afterStory     []hook
	beforeScenario []hook
	afterScenario  []hook
}

type definition struct {
	keyword string
	pattern string
	re      *regexp.Regexp
	names   []string
	fn      StepFunc
}

type hook struct {
	name string
	fn   HookFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Given registers a step matched by Given (or And following a Given) lines.
// Patterns use $name placeholders, e.g. "a user named $name".
func (r *Registry) Given(pattern string, fn StepFunc) {
	r.register("Given", pattern, fn)
}

// When registers a step matched by When lines.
func (r *Registry) When(pattern string, fn StepFunc) {
	r.register("When", pattern, fn)
}

// Then registers a step matched by Then lines.
func (r *Registry) Then(pattern string, fn StepFunc) {
	r.register("Then", pattern, fn)
}

func (r *Registry) register(keyword, pattern string, fn StepFunc) {
	re, names := compilePattern(pattern)
	r.defs = append(r.defs, &definition{
		keyword: keyword,
		pattern: pattern,
		re:      re,
		names:   names,
		fn:      fn,
	})
}

// BeforeStories registers a hook run once before a whole story collection.
func (r *Registry) BeforeStories(name string, fn HookFunc) {
	r.beforeStories = append(r.beforeStories, hook{name, fn})
}

// AfterStories registers a hook run once after a whole story collection.
func (r *Registry) AfterStories(name string, fn HookFunc) {
	r.afterStories = append(r.afterStories, hook{name, fn})
}

// BeforeStory registers a hook run before each story.
func (r *Registry) BeforeStory(name string, fn HookFunc) {
	r.beforeStory = append(r.beforeStory, hook{name, fn})
}

// AfterStory registers a hook run after each story.
func (r *Registry) AfterStory(name string, fn HookFunc) {
	r.afterStory = append(r.afterStory, hook{name, fn})
}

// BeforeScenario registers a hook run before each scenario.
func (r *Registry) BeforeScenario(name string, fn HookFunc) {
	r.beforeScenario = append(r.beforeScenario, hook{name, fn})
}

// AfterScenario registers a hook run after each scenario.
func (r *Registry) AfterScenario(name string, fn HookFunc) {
	r.afterScenario = append(r.afterScenario, hook{name, fn})
}

// match finds the definition for a keyword and step text, returning the
// captured parameters.
func (r *Registry) match(keyword, text string) (*definition, map[string]string, bool) {
	for _, def := range r.defs {
		if !strings.EqualFold(def.keyword, keyword) {
			continue
		}
		m := def.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		params := make(map[string]string, len(def.names))
		for i, name := range def.names {
			params[name] = m[i+1]
		}
		return def, params, true
	}
	return nil, nil, false
}

var placeholderPattern = regexp.MustCompile(`\$(\w+)`)

// compilePattern turns "$name" placeholders into capture groups. The last
// placeholder of a pattern matches greedily to the end of the step text;
// earlier ones match lazily.
func compilePattern(pattern string) (*regexp.Regexp, []string) {
	var names []string
	escaped := regexp.QuoteMeta(pattern)
	quotedPlaceholder := regexp.MustCompile(`\\\$(\w+)`)
	matches := quotedPlaceholder.FindAllStringSubmatchIndex(escaped, -1)
	var sb strings.Builder
	last := 0
	for i, m := range matches {
		sb.WriteString(escaped[last:m[0]])
		names = append(names, escaped[m[2]:m[3]])
		if i == len(matches)-1 {
			sb.WriteString(`(.+)`)
		} else {
			sb.WriteString(`(.+?)`)
		}
		last = m[1]
	}
	sb.WriteString(escaped[last:])
	re := regexp.MustCompile(`^` + sb.String() + `$`)
	return re, names
}

func (d *definition) String() string {
	return fmt.Sprintf("%s %s", d.keyword, d.pattern)
}
