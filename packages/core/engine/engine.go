package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
	"go.uber.org/zap"
)

// Runner executes stories. A Runner is read-only after construction and may
// be shared across concurrently executing stories; all per-run mutable state
// lives in the RunContext chain of each call.
type Runner struct {
	cfg Configuration
}

// NewRunner builds a Runner from a configuration. The Collector is the only
// collaborator without a default.
func NewRunner(cfg Configuration) *Runner {
	cfg.normalize()
	return &Runner{cfg: cfg}
}

// Run executes a full story lifecycle and applies the configured failure
// strategy at completion. The returned error is the accumulated failure when
// the strategy escalates it, a cancellation error when the context was
// cancelled mid-step, or nil.
func (r *Runner) Run(ctx context.Context, story *model.Story, filter MetaFilter) error {
	return r.RunWithState(ctx, story, filter, nil)
}

// RunWithState executes a story starting from a prior state, typically the
// state left behind by the before-stories collection hooks.
func (r *Runner) RunWithState(ctx context.Context, story *model.Story, filter MetaFilter, beforeStories *State) error {
	rc := newRunContext(&r.cfg, story.Path, filter)
	if beforeStories != nil {
		rc.state = *beforeStories
	}
	return r.run(ctx, rc, story, map[string]string{})
}

// StoryOfPath loads and parses the story at the given path.
func (r *Runner) StoryOfPath(path string) (*model.Story, error) {
	if r.cfg.Loader == nil || r.cfg.Parser == nil {
		return nil, fmt.Errorf("no story loader/parser configured for path %q", path)
	}
	text, err := r.cfg.Loader.LoadStoryText(path)
	if err != nil {
		return nil, fmt.Errorf("loading story %q: %w", path, err)
	}
	return r.cfg.Parser.ParseStory(text, path)
}

// RunBeforeOrAfterStories runs the collection-level hooks, once per whole
// story collection, under a synthetic story boundary. The AFTER stage
// applies the strategy resolved for any accumulated failure and flushes
// delayed output. The returned state may be passed into subsequent story
// runs via RunWithState.
func (r *Runner) RunBeforeOrAfterStories(ctx context.Context, stage Stage, beforeStories *State) (State, error) {
	path := "BeforeStories"
	if stage == StageAfter {
		path = "AfterStories"
	}
	rc := newRunContext(&r.cfg, path, EmptyFilter)
	rc.env.reporter = r.cfg.ReporterFor(path)
	if stage == StageBefore {
		r.resetStoryFailure(rc)
	}
	if stage == StageAfter && beforeStories != nil {
		rc.state = *beforeStories
	}
	rc.reporter().BeforeStory(&model.Story{Path: path}, false)
	err := rc.runSteps(ctx, r.cfg.Collector.BeforeOrAfterStoriesSteps(stage))
	rc.reporter().AfterStory(false)
	if err != nil {
		if isCancellation(err) {
			rc.reporter().Cancelled()
		}
		return rc.state, err
	}
	if stage == StageAfter {
		defer invokeDelayed(rc.reporter())
		strategy := rc.env.currentStrategy
		if strategy == nil {
			strategy = SilentlyAbsorb
		}
		if err := strategy(rc.env.failure); err != nil {
			return rc.state, err
		}
	}
	return rc.state, nil
}

func (r *Runner) run(ctx context.Context, rc *RunContext, story *model.Story, parameters map[string]string) error {
	err := r.runStory(ctx, rc, story, parameters)
	if err != nil && !rc.givenStory && isCancellation(err) {
		rc.reporter().Cancelled()
	}
	return err
}

// runStory orchestrates one full story run; see the scenario loop for the
// per-scenario rules. Only the outermost, non-given story applies the
// failure strategy and flushes delayed reporter output.
func (r *Runner) runStory(ctx context.Context, rc *RunContext, story *model.Story, parameters map[string]string) error {
	if !rc.givenStory {
		rc.env.reporter = r.cfg.ReporterFor(story.Path)
		defer invokeDelayed(rc.reporter())
	}
	r.resetStoryFailure(rc)
	r.cfg.Log.Debug("running story",
		zap.String("path", story.Path),
		zap.Bool("givenStory", rc.givenStory))

	if rc.dryRun() {
		rc.reporter().DryRun()
	}
	if r.cfg.Controls.ResetStateBeforeStory {
		rc.resetState()
	}

	rc.reporter().BeforeStory(story, rc.givenStory)

	storyAllowed := true
	if rc.metaNotAllowed(story.Meta) {
		rc.reporter().StoryNotAllowed(story, rc.filter.String())
		storyAllowed = false
	}

	if storyAllowed {
		rc.reporter().Narrative(story.Narrative)

		if err := rc.runSteps(ctx, r.cfg.Collector.BeforeOrAfterStorySteps(story, StageBefore, rc.givenStory)); err != nil {
			return err
		}

		hooksEnabled := r.shouldRunScenarioHooks(rc)

		for i := range story.Scenarios {
			scenario := &story.Scenarios[i]
			if rc.FailureOccurred() && r.cfg.Controls.SkipScenariosAfterFailure {
				continue
			}
			rc.reporter().BeforeScenario(scenario.Title)
			rc.reporter().ScenarioMeta(scenario.Meta)

			merged := scenario.Meta.InheritFrom(story.Meta)
			if rc.metaNotAllowed(merged) {
				rc.reporter().ScenarioNotAllowed(scenario, rc.filter.String())
			} else if scenario.Parameterised() {
				if err := r.runParameterisedScenario(ctx, rc, scenario, merged, hooksEnabled); err != nil {
					return err
				}
			} else {
				body := func(ctx context.Context) error {
					return r.runScenarioSteps(ctx, rc, scenario, withMetaParameters(parameters, merged))
				}
				if err := r.runScenario(ctx, rc, scenario, merged, hooksEnabled, body); err != nil {
					return err
				}
			}

			rc.reporter().AfterScenario()
		}

		if err := rc.runSteps(ctx, r.cfg.Collector.BeforeOrAfterStorySteps(story, StageAfter, rc.givenStory)); err != nil {
			return err
		}
	}

	rc.reporter().AfterStory(rc.givenStory)

	if !rc.givenStory {
		return rc.env.currentStrategy(rc.env.failure)
	}
	return nil
}

// runScenario brackets a scenario body with the optional state reset, the
// before/after scenario hooks, and the given-story recursion.
func (r *Runner) runScenario(ctx context.Context, rc *RunContext, scenario *model.Scenario, meta model.Meta, hooksEnabled bool, body func(context.Context) error) error {
	if r.cfg.Controls.ResetStateBeforeScenario {
		rc.resetState()
	}
	if hooksEnabled {
		if err := rc.runSteps(ctx, r.cfg.Collector.BeforeOrAfterScenarioSteps(meta, StageBefore)); err != nil {
			return err
		}
	}
	if err := r.runGivenStories(ctx, rc, scenario); err != nil {
		return err
	}
	if err := body(ctx); err != nil {
		return err
	}
	if hooksEnabled {
		if err := rc.runSteps(ctx, r.cfg.Collector.BeforeOrAfterScenarioSteps(meta, StageAfter)); err != nil {
			return err
		}
	}
	return nil
}

// runParameterisedScenario expands the scenario once per examples row,
// merging meta-derived parameters under the row's named parameters.
func (r *Runner) runParameterisedScenario(ctx context.Context, rc *RunContext, scenario *model.Scenario, meta model.Meta, hooksEnabled bool) error {
	rc.reporter().BeforeExamples(scenario.Steps, scenario.Table)
	for _, row := range scenario.Table.Rows() {
		rc.reporter().Example(row)
		parameters := withMetaParameters(row, meta)
		body := func(ctx context.Context) error {
			return r.runScenarioSteps(ctx, rc, scenario, parameters)
		}
		if err := r.runScenario(ctx, rc, scenario, meta, hooksEnabled, body); err != nil {
			return err
		}
	}
	rc.reporter().AfterExamples()
	return nil
}

// runGivenStories executes each referenced story's full lifecycle before the
// referencing scenario's own steps, propagating the resulting state back
// into the parent context.
func (r *Runner) runGivenStories(ctx context.Context, rc *RunContext, scenario *model.Scenario) error {
	given := scenario.GivenStories.Stories()
	if len(given) == 0 {
		return nil
	}
	rc.reporter().GivenStories(scenario.GivenStories.Paths())
	for _, g := range given {
		child := rc.childFor(g)
		story, err := r.StoryOfPath(child.path)
		if err != nil {
			return err
		}
		parameters := g.Parameters
		if parameters == nil {
			parameters = map[string]string{}
		}
		if err := r.run(ctx, child, story, parameters); err != nil {
			return err
		}
		rc.state = child.state
	}
	return nil
}

// runScenarioSteps collects and runs the scenario's step list. A restart
// signal discards the list, recollects, and re-runs from scratch; there is
// no iteration cap. Pending steps found in a completed pass are reported as
// generated method stubs.
func (r *Runner) runScenarioSteps(ctx context.Context, rc *RunContext, scenario *model.Scenario, parameters map[string]string) error {
	for {
		steps := r.cfg.Collector.ScenarioSteps(scenario, parameters)
		if err := rc.runSteps(ctx, steps); err != nil {
			var restart *RestartSignal
			if errors.As(err, &restart) {
				r.cfg.Log.Debug("scenario restarted",
					zap.String("scenario", scenario.Title),
					zap.String("reason", restart.Reason))
				continue
			}
			return err
		}
		r.reportPendingStubs(rc, steps)
		return nil
	}
}

func (r *Runner) reportPendingStubs(rc *RunContext, steps []Step) {
	var pending []*PendingStep
	for _, s := range steps {
		if p, ok := s.(*PendingStep); ok {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return
	}
	methods := []string{}
	for _, p := range pending {
		if !p.Annotated() {
			methods = append(methods, p.Stub())
		}
	}
	rc.reporter().PendingMethods(methods)
}

func (r *Runner) shouldRunScenarioHooks(rc *RunContext) bool {
	if !r.cfg.Controls.SkipScenarioHooksForGivenStories {
		return true
	}
	return !rc.givenStory
}

// resetStoryFailure resets the failure slots at the start of a fresh call
// chain. Given stories inherit the parent's accumulated failure.
func (r *Runner) resetStoryFailure(rc *RunContext) {
	if rc.givenStory {
		return
	}
	rc.env.failure = nil
	rc.env.currentStrategy = SilentlyAbsorb
}

// withMetaParameters merges meta tags into a parameter set without mutating
// either input; the base parameters win on key collisions.
func withMetaParameters(base map[string]string, meta model.Meta) map[string]string {
	out := make(map[string]string, len(base)+len(meta.Names()))
	for _, name := range meta.Names() {
		out[name] = meta.Property(name)
	}
	for k, v := range base {
		out[k] = v
	}
	return out
}

func invokeDelayed(reporter Reporter) {
	if d, ok := reporter.(DelayedReporter); ok {
		d.InvokeDelayed()
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
