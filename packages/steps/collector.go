package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

// Observer is called with the duration of every performed step, e.g. to feed
// a timing histogram.
type Observer func(step string, d time.Duration, err error)

// Collector builds concrete step lists from a registry. It implements the
// engine's StepCollector contract and is read-only at run time.
type Collector struct {
	registry *Registry
	dryRun   bool
	observer Observer
}

// Option configures a Collector.
type Option func(*Collector)

// WithDryRun makes collected steps report success without executing their
// implementations.
func WithDryRun(dryRun bool) Option {
	return func(c *Collector) {
		c.dryRun = dryRun
	}
}

// WithObserver registers a step timing observer.
func WithObserver(obs Observer) Option {
	return func(c *Collector) {
		c.observer = obs
	}
}

// NewCollector builds a collector over a registry.
func NewCollector(registry *Registry, opts ...Option) *Collector {
	c := &Collector{registry: registry}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeforeOrAfterStoriesSteps returns the collection-level hook steps.
func (c *Collector) BeforeOrAfterStoriesSteps(stage engine.Stage) []engine.Step {
	if stage == engine.StageBefore {
		return c.hookSteps("@BeforeStories", c.registry.beforeStories)
	}
	return c.hookSteps("@AfterStories", c.registry.afterStories)
}

// BeforeOrAfterStorySteps returns the story-level hook steps. Hooks run for
// given stories as well; the engine decides whether to request them.
func (c *Collector) BeforeOrAfterStorySteps(story *model.Story, stage engine.Stage, givenStory bool) []engine.Step {
	if stage == engine.StageBefore {
		return c.hookSteps("@BeforeStory", c.registry.beforeStory)
	}
	return c.hookSteps("@AfterStory", c.registry.afterStory)
}

// BeforeOrAfterScenarioSteps returns the scenario-level hook steps.
func (c *Collector) BeforeOrAfterScenarioSteps(meta model.Meta, stage engine.Stage) []engine.Step {
	if stage == engine.StageBefore {
		return c.hookSteps("@BeforeScenario", c.registry.beforeScenario)
	}
	return c.hookSteps("@AfterScenario", c.registry.afterScenario)
}

// ScenarioSteps builds the executable steps of a scenario body for the given
// parameters. Named parameters appear in step text as <name> and are
// substituted before matching. Steps with no matching implementation become
// pending steps.
func (c *Collector) ScenarioSteps(scenario *model.Scenario, parameters map[string]string) []engine.Step {
	out := make([]engine.Step, 0, len(scenario.Steps))
	previousKeyword := ""
	previousNonAnd := ""
	for _, text := range scenario.Steps {
		text = substituteParameters(text, parameters)
		keyword, _ := splitKeyword(text)
		lookupKeyword := keyword
		if strings.EqualFold(keyword, "And") || strings.EqualFold(keyword, "But") {
			if previousKeyword != "" {
				lookupKeyword = previousKeyword
			}
		} else {
			previousKeyword = keyword
		}

		def, captured, ok := c.registry.match(lookupKeyword, stripKeyword(text))
		if !ok {
			out = append(out, engine.NewPendingStep(text, previousNonAnd, false))
			if !strings.EqualFold(keyword, "And") && !strings.EqualFold(keyword, "But") {
				previousNonAnd = text
			}
			continue
		}
		if !strings.EqualFold(keyword, "And") && !strings.EqualFold(keyword, "But") {
			previousNonAnd = text
		}

		params := make(map[string]string, len(parameters)+len(captured))
		for k, v := range parameters {
			params[k] = v
		}
		for k, v := range captured {
			params[k] = v
		}
		out = append(out, &performableStep{
			text:     text,
			fn:       def.fn,
			params:   params,
			dryRun:   c.dryRun,
			observer: c.observer,
		})
	}
	return out
}

func (c *Collector) hookSteps(prefix string, hooks []hook) []engine.Step {
	out := make([]engine.Step, 0, len(hooks))
	for _, h := range hooks {
		fn := h.fn
		out = append(out, &performableStep{
			text:     fmt.Sprintf("%s %s", prefix, h.name),
			fn:       func(ctx context.Context, _ map[string]string) error { return fn(ctx) },
			dryRun:   c.dryRun,
			observer: c.observer,
		})
	}
	return out
}

// performableStep is a step bound to an implementation.
type performableStep struct {
	text     string
	fn       StepFunc
	params   map[string]string
	dryRun   bool
	observer Observer
}

func (s *performableStep) Perform(ctx context.Context, storyFailure *engine.Failure) engine.Result {
	if s.dryRun {
		return engine.PerformedResult(s.text)
	}
	start := time.Now()
	err := s.fn(ctx, s.params)
	if s.observer != nil {
		s.observer(s.text, time.Since(start), err)
	}
	if err != nil {
		return engine.FailedResult(s.text, engine.NewFailure(err))
	}
	return engine.PerformedResult(s.text)
}

func (s *performableStep) DoNotPerform(storyFailure *engine.Failure) engine.Result {
	return engine.NotPerformedResult(s.text, storyFailure)
}

func (s *performableStep) String() string {
	return s.text
}

var parameterPattern = regexp.MustCompile(`<(\w+)>`)

func substituteParameters(text string, parameters map[string]string) string {
	if len(parameters) == 0 {
		return text
	}
	return parameterPattern.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.Trim(m, "<>")
		if v, ok := parameters[name]; ok {
			return v
		}
		return m
	})
}

func splitKeyword(text string) (keyword, rest string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func stripKeyword(text string) string {
	_, rest := splitKeyword(text)
	return rest
}
