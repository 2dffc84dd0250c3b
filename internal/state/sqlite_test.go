package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsync/pkg/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetRun(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("orders", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "orders", run.Source)
	assert.Equal(t, 4, run.Partitions)
	assert.Equal(t, core.RunStatusRunning, run.Status)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, core.RunStatusRunning, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Empty(t, got.Error)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestCompleteRun(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("orders", 2)
	require.NoError(t, err)

	require.NoError(t, store.CompleteRun(run.ID, core.RunStatusCompleted, 1500, ""))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusCompleted, got.Status)
	assert.Equal(t, int64(1500), got.Rows)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartedAt))
}

func TestCompleteRunWithError(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("orders", 2)
	require.NoError(t, err)

	require.NoError(t, store.CompleteRun(run.ID, core.RunStatusFailed, 0, "boundary query failed"))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusFailed, got.Status)
	assert.Equal(t, "boundary query failed", got.Error)
}

func TestGetLatestRun(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = store.CreateRun("first", 1)
	require.NoError(t, err)
	second, err := store.CreateRun("second", 1)
	require.NoError(t, err)

	latest, err = store.GetLatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.CreateRun("orders", 1)
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestStoreNotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreateRun("orders", 1)
	assert.Error(t, err)
	_, err = store.GetLatestRun()
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
