package engine

import (
	"context"
	"errors"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
	"go.uber.org/zap"
)

// StoryControls is the configuration surface consumed by the execution core.
type StoryControls struct {
	DryRun                    bool
	ResetStateBeforeStory     bool
	ResetStateBeforeScenario  bool
	SkipScenariosAfterFailure bool
	// SkipScenarioHooksForGivenStories disables before/after scenario hooks
	// while executing given stories.
	SkipScenarioHooksForGivenStories bool
}

// DefaultStoryControls matches the engine's default behavior: state resets
// at scenario boundaries but not at story boundaries, so given stories
// inherit the parent's accumulated state, and nothing is skipped.
func DefaultStoryControls() StoryControls {
	return StoryControls{
		ResetStateBeforeScenario: true,
	}
}

// Configuration wires the collaborators and policies of a Runner. Collector
// and Controls are required; everything else has a working default.
type Configuration struct {
	Controls       StoryControls
	Collector      StepCollector
	Loader         StoryLoader
	Parser         StoryParser
	PathCalculator PathCalculator

	// ReporterFor builds the reporter for a top-level story path. Given
	// stories reuse the reporter established by their parent.
	ReporterFor func(storyPath string) Reporter

	// FailureStrategy is applied at story completion to genuine failures,
	// PendingStepStrategy to pending-step discoveries.
	FailureStrategy     FailureStrategy
	PendingStepStrategy FailureStrategy

	Log *zap.Logger
}

func (c *Configuration) normalize() {
	if c.ReporterFor == nil {
		c.ReporterFor = func(string) Reporter { return NopReporter{} }
	}
	if c.FailureStrategy == nil {
		c.FailureStrategy = Rethrow
	}
	if c.PendingStepStrategy == nil {
		c.PendingStepStrategy = PassOnPendingSteps
	}
	if c.PathCalculator == nil {
		c.PathCalculator = identityPathCalculator{}
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
}

type identityPathCalculator struct{}

func (identityPathCalculator) Calculate(parent, child string) string { return child }

// runEnv holds the per-run mutable slots shared along one given-story call
// chain: the reporter target, the most important failure seen so far, and
// the strategy resolved for it. One runEnv exists per top-level story
// execution, so concurrent runs cannot interfere.
type runEnv struct {
	reporter        Reporter
	failure         *Failure
	currentStrategy FailureStrategy
}

// RunContext is the per-story execution context. Each given story gets a
// child context sharing the parent's runEnv; child contexts do not outlive
// the call that created them.
type RunContext struct {
	cfg        *Configuration
	env        *runEnv
	path       string
	filter     MetaFilter
	givenStory bool
	state      State
}

func newRunContext(cfg *Configuration, path string, filter MetaFilter) *RunContext {
	if filter == nil {
		filter = EmptyFilter
	}
	return &RunContext{
		cfg:    cfg,
		env:    &runEnv{reporter: NopReporter{}},
		path:   path,
		filter: filter,
		state:  HealthyState(),
	}
}

// childFor builds the context for a given story: same collector and filter,
// inherited state, resolved path, marked as a given-story invocation.
func (c *RunContext) childFor(given model.GivenStory) *RunContext {
	return &RunContext{
		cfg:        c.cfg,
		env:        c.env,
		path:       c.cfg.PathCalculator.Calculate(c.path, given.Path),
		filter:     c.filter,
		givenStory: true,
		state:      c.state,
	}
}

// Path returns the story path this context executes.
func (c *RunContext) Path() string { return c.path }

// GivenStory reports whether this is a nested given-story invocation.
func (c *RunContext) GivenStory() bool { return c.givenStory }

// State returns the current execution state.
func (c *RunContext) State() State { return c.state }

// FailureOccurred reports whether the run has left the healthy state.
func (c *RunContext) FailureOccurred() bool { return !c.state.Healthy() }

func (c *RunContext) resetState() { c.state = HealthyState() }

func (c *RunContext) dryRun() bool { return c.cfg.Controls.DryRun }

func (c *RunContext) metaNotAllowed(meta model.Meta) bool {
	return !c.filter.Allow(meta)
}

func (c *RunContext) reporter() Reporter { return c.env.reporter }

func (c *RunContext) strategyFor(f *Failure) FailureStrategy {
	if IsPending(f) {
		return c.cfg.PendingStepStrategy
	}
	return c.cfg.FailureStrategy
}

// advance is the single transition of the execution state machine. Healthy:
// perform the step, record a failure under the most-important rule. Failed:
// request the do-not-perform outcome so reporting stays accurate. A restart
// signal or cancellation is returned as an error and never recorded as the
// run's failure.
func (c *RunContext) advance(ctx context.Context, state State, step Step) (State, error) {
	if !state.Healthy() {
		step.DoNotPerform(state.Failure()).DescribeTo(c.reporter())
		return state, nil
	}
	if err := ctx.Err(); err != nil {
		return state, err
	}
	result := step.Perform(ctx, c.env.failure)
	cause := result.Failure()
	if cause != nil {
		var restart *RestartSignal
		if errors.As(cause.Err, &restart) {
			c.reporter().Restarted(step.String(), restart)
			return state, restart
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}
	}
	result.DescribeTo(c.reporter())
	if cause == nil {
		return state, nil
	}
	c.env.failure = mostImportantOf(c.env.failure, cause)
	c.env.currentStrategy = c.strategyFor(c.env.failure)
	c.cfg.Log.Debug("state transition to failed",
		zap.String("step", step.String()),
		zap.Error(cause))
	return FailedState(cause), nil
}

// runSteps walks a step list through the state machine, committing the
// resulting state only when the whole list completed without a restart
// signal or cancellation.
func (c *RunContext) runSteps(ctx context.Context, steps []Step) error {
	if len(steps) == 0 {
		return nil
	}
	state := c.state
	for _, step := range steps {
		var err error
		state, err = c.advance(ctx, state, step)
		if err != nil {
			return err
		}
	}
	c.state = state
	return nil
}
