package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRuns(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	first := RunRecord{
		RunID:      "run-1",
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		Accounts:   3,
		Refreshed:  1,
		Mismatches: []string{"aaaaa-aa"},
		Verified:   false,
	}
	second := RunRecord{
		RunID:     "run-2",
		StartedAt: first.StartedAt.Add(time.Minute),
		Accounts:  3,
		Verified:  true,
	}

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0])
	assert.Equal(t, second, runs[1])
}

func TestAppendRequiresRunID(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Append(RunRecord{}))
}

func TestRunsSurviveReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(RunRecord{RunID: "run-1", Verified: true}))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.True(t, runs[0].Verified)
}
