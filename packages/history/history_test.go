package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.RecordRun(ctx, RunRecord{
		StoryPath: "checkout.story",
		Status:    "passed",
		Duration:  1200 * time.Millisecond,
		StartedAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first)

	second, err := store.RecordRun(ctx, RunRecord{
		StoryPath: "checkout.story",
		Status:    "failed",
		Failure:   "When I check out: boom",
		Duration:  800 * time.Millisecond,
		StartedAt: time.Now(),
	})
	require.NoError(t, err)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Equal(t, "When I check out: boom", runs[0].Failure)
	assert.Equal(t, 800*time.Millisecond, runs[0].Duration)
	assert.Equal(t, first, runs[1].ID)
}

func TestListRunsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := store.RecordRun(ctx, RunRecord{
			StoryPath: "a.story",
			Status:    "passed",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	// non-positive limit falls back to the default
	runs, err = store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestRecordRunAssignsDefaults(t *testing.T) {
	store := openTestStore(t)

	id, err := store.RecordRun(context.Background(), RunRecord{StoryPath: "a.story", Status: "passed"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	runs, err := store.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].StartedAt.IsZero())
}
