package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategies(t *testing.T) {
	failure := NewFailure(errors.New("boom"))
	pending := NewFailure(&PendingStepFound{Step: "When x"})

	assert.NoError(t, SilentlyAbsorb(failure))
	assert.NoError(t, SilentlyAbsorb(nil))

	assert.NoError(t, Rethrow(nil))
	assert.Equal(t, failure, Rethrow(failure))

	assert.NoError(t, PassOnPendingSteps(pending))
	assert.NoError(t, FailOnPendingSteps(nil))
	assert.Equal(t, pending, FailOnPendingSteps(pending))
}
