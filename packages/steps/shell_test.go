package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellStepsRoundTrip(t *testing.T) {
	r := NewRegistry()
	NewShellSteps(t.TempDir()).Register(r)
	c := NewCollector(r)
	ctx := context.Background()

	perform := func(text string) error {
		steps := c.ScenarioSteps(scenarioWith(text), nil)
		require.Len(t, steps, 1)
		result := steps[0].Perform(ctx, nil)
		if result.Cause != nil {
			return result.Cause
		}
		return nil
	}

	require.NoError(t, perform(`When I run "echo hello world"`))
	assert.NoError(t, perform(`Then the output should contain "hello"`))
	assert.Error(t, perform(`Then the output should contain "absent"`))
	assert.NoError(t, perform(`Then the output should not contain "absent"`))
	assert.NoError(t, perform(`Then the exit code should be 0`))

	require.NoError(t, perform(`When I run "exit 3"`))
	assert.NoError(t, perform(`Then the exit code should be 3`))
	assert.Error(t, perform(`Then the exit code should be 0`))
}

func TestShellStepsWorkingDirectory(t *testing.T) {
	s := NewShellSteps("")
	err := s.setDir(context.Background(), map[string]string{"dir": "/does/not/exist"})
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, s.setDir(context.Background(), map[string]string{"dir": dir}))
	assert.Equal(t, dir, s.dir)
}
