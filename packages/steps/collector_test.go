package steps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
)

func scenarioWith(steps ...string) *model.Scenario {
	return &model.Scenario{Title: "s", Steps: steps}
}

func TestScenarioStepsBindImplementations(t *testing.T) {
	var got map[string]string
	r := NewRegistry()
	r.Given("a user named $name", func(_ context.Context, params map[string]string) error {
		got = params
		return nil
	})
	c := NewCollector(r)

	steps := c.ScenarioSteps(scenarioWith("Given a user named ada"), nil)
	require.Len(t, steps, 1)

	result := steps[0].Perform(context.Background(), nil)
	assert.Equal(t, engine.StatusPerformed, result.Status)
	assert.Equal(t, "ada", got["name"])
}

func TestScenarioStepsSubstituteNamedParameters(t *testing.T) {
	var got map[string]string
	r := NewRegistry()
	r.Then("the total is $total", func(_ context.Context, params map[string]string) error {
		got = params
		return nil
	})
	c := NewCollector(r)

	steps := c.ScenarioSteps(scenarioWith("Then the total is <total>"),
		map[string]string{"total": "42.00", "extra": "kept"})
	require.Len(t, steps, 1)
	steps[0].Perform(context.Background(), nil)

	// captured values and row parameters are both visible
	assert.Equal(t, "42.00", got["total"])
	assert.Equal(t, "kept", got["extra"])
	assert.Equal(t, "Then the total is 42.00", steps[0].String())
}

func TestAndResolvesToPreviousKeyword(t *testing.T) {
	r := NewRegistry()
	whenCalls := 0
	r.When("the user logs in", noop)
	r.When("the session refreshes", func(context.Context, map[string]string) error {
		whenCalls++
		return nil
	})
	c := NewCollector(r)

	steps := c.ScenarioSteps(scenarioWith(
		"When the user logs in",
		"And the session refreshes",
	), nil)
	require.Len(t, steps, 2)
	steps[1].Perform(context.Background(), nil)
	assert.Equal(t, 1, whenCalls)
}

func TestUnmatchedStepBecomesPending(t *testing.T) {
	c := NewCollector(NewRegistry())

	steps := c.ScenarioSteps(scenarioWith("When nothing matches"), nil)
	require.Len(t, steps, 1)

	pending, ok := steps[0].(*engine.PendingStep)
	require.True(t, ok)
	result := pending.Perform(context.Background(), nil)
	assert.Equal(t, engine.StatusPending, result.Status)
}

func TestFailingStepWrapsError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.When("it breaks", func(context.Context, map[string]string) error { return boom })
	c := NewCollector(r)

	steps := c.ScenarioSteps(scenarioWith("When it breaks"), nil)
	result := steps[0].Perform(context.Background(), nil)

	assert.Equal(t, engine.StatusFailed, result.Status)
	require.NotNil(t, result.Cause)
	assert.ErrorIs(t, result.Cause, boom)
}

func TestDryRunSkipsExecution(t *testing.T) {
	calls := 0
	r := NewRegistry()
	r.When("it runs", func(context.Context, map[string]string) error {
		calls++
		return nil
	})
	c := NewCollector(r, WithDryRun(true))

	steps := c.ScenarioSteps(scenarioWith("When it runs"), nil)
	result := steps[0].Perform(context.Background(), nil)

	assert.Equal(t, engine.StatusPerformed, result.Status)
	assert.Equal(t, 0, calls)
}

func TestObserverSeesTimingAndError(t *testing.T) {
	boom := errors.New("boom")
	var observedStep string
	var observedErr error
	var observedD time.Duration
	r := NewRegistry()
	r.When("it breaks", func(context.Context, map[string]string) error { return boom })
	c := NewCollector(r, WithObserver(func(step string, d time.Duration, err error) {
		observedStep, observedD, observedErr = step, d, err
	}))

	steps := c.ScenarioSteps(scenarioWith("When it breaks"), nil)
	steps[0].Perform(context.Background(), nil)

	assert.Equal(t, "When it breaks", observedStep)
	assert.ErrorIs(t, observedErr, boom)
	assert.GreaterOrEqual(t, observedD, time.Duration(0))
}

func TestHookStepsCarryStageName(t *testing.T) {
	r := NewRegistry()
	r.BeforeStories("db up", func(context.Context) error { return nil })
	c := NewCollector(r)

	steps := c.BeforeOrAfterStoriesSteps(engine.StageBefore)
	require.Len(t, steps, 1)
	assert.Equal(t, "@BeforeStories db up", steps[0].String())
	assert.Empty(t, c.BeforeOrAfterStoriesSteps(engine.StageAfter))
}

func TestNotPerformedOutcome(t *testing.T) {
	r := NewRegistry()
	r.When("it runs", noop)
	c := NewCollector(r)

	steps := c.ScenarioSteps(scenarioWith("When it runs"), nil)
	failure := engine.NewFailure(errors.New("earlier"))
	result := steps[0].DoNotPerform(failure)

	assert.Equal(t, engine.StatusNotPerformed, result.Status)
	assert.Equal(t, failure, result.Cause)
}
