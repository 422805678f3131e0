package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2021, 12, 12, 15, 0, 0, 0, time.UTC)

func newTestLoadStore(t *testing.T) *LoadStoreImpl {
	t.Helper()
	store, err := NewLoadStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "loads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadStoreLifecycle(t *testing.T) {
	store := newTestLoadStore(t)

	runID, err := store.BeginLoad("2021", testTime)
	require.NoError(t, err)
	assert.Len(t, runID, 36, "run ID should be a UUID")

	running, err := store.GetLoadRun(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.RunningOutcome, running.Outcome)
	assert.Nil(t, running.EndedAt)
	assert.Equal(t, testTime.UnixMilli(), running.StartedAt.UnixMilli())

	summary := schema.LoadSummary{Drivers: 21, Constructors: 10, Rounds: 22, Images: 30, ImageMisses: 1}
	require.NoError(t, store.EndLoad(runID, testTime.Add(3*time.Second), schema.CompletedOutcome, summary))

	done, err := store.GetLoadRun(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.CompletedOutcome, done.Outcome)
	require.NotNil(t, done.EndedAt)
	assert.Equal(t, 3*time.Second, done.EndedAt.Sub(done.StartedAt))
	assert.Equal(t, summary, done.LoadSummary)
}

func TestLoadStoreEndUnknownRun(t *testing.T) {
	store := newTestLoadStore(t)
	err := store.EndLoad("does-not-exist", testTime, schema.FailedOutcome, schema.LoadSummary{})
	assert.Error(t, err)

	_, err = store.GetLoadRun("does-not-exist")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLoadStoreStatusAndListing(t *testing.T) {
	store := newTestLoadStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)

	first, err := store.BeginLoad("2020", testTime)
	require.NoError(t, err)
	second, err := store.BeginLoad("2021", testTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.EndLoad(first, testTime.Add(time.Second), schema.SupersededOutcome, schema.LoadSummary{}))
	require.NoError(t, store.EndLoad(second, testTime.Add(2*time.Minute), schema.CompletedOutcome, schema.LoadSummary{Rounds: 22}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.Equal(t, testTime.UnixMilli(), status.OldestRunTime.UnixMilli())
	assert.Equal(t, map[schema.LoadOutcome]int{schema.SupersededOutcome: 1, schema.CompletedOutcome: 1}, status.OutcomeCounts)

	runs, err := store.GetAllLoadRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "2020", runs[0].Season)
	assert.Equal(t, "2021", runs[1].Season)
	assert.Equal(t, 22, runs[1].Rounds)

	var buf bytes.Buffer
	PrintLoadStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Runs: 2")
	assert.Contains(t, buf.String(), "superseded: 1 runs")
}

func TestLoadStoreNoneBackend(t *testing.T) {
	store, err := NewLoadStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginLoad("2021", testTime)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.NoError(t, store.EndLoad(runID, testTime, schema.CompletedOutcome, schema.LoadSummary{}))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllLoadRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestLoadStoreRejectsKVBackends(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.BoltBackend, schema.RedisBackend, schema.MemoryBackend} {
		_, err := NewLoadStore(backend, "")
		assert.Error(t, err, string(backend))
	}
}

func TestMigrateLoads_NoneBackend(t *testing.T) {
	_, err := MigrateLoads(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateLoads_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Run migration to latest version (should go to version 1)
	msg, err := MigrateLoads(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 1")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	msg, err = MigrateLoads(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	// Rollback to version 0
	_, err = MigrateLoads(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)

	// Migrate back up to version 1
	_, err = MigrateLoads(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)

	// The migrated table serves the load store
	store, err := NewLoadStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginLoad("2021", testTime)
	assert.NoError(t, err)
}

func TestExecuteLoadExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteLoadExport(&bytes.Buffer{}, &MockLoadStore{}, "")
		assert.Error(t, err)
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockLoadStore{}
		store.On("GetStatus").Return(schema.LoadStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExecuteLoadExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "runs.parquet"))
		assert.ErrorContains(t, err, "no load data")
		store.AssertExpectations(t)
	})

	t.Run("writes parquet", func(t *testing.T) {
		ended := testTime.Add(time.Second)
		store := &MockLoadStore{}
		store.On("GetStatus").Return(schema.LoadStatus{Backend: "sqlite", Connected: true, TotalRuns: 1}, nil)
		store.On("GetAllLoadRuns").Return([]schema.LoadRunRecord{{
			RunID: "run-1", Season: "2021", StartedAt: testTime, EndedAt: &ended, Outcome: schema.CompletedOutcome,
		}}, nil)

		out := filepath.Join(t.TempDir(), "runs.parquet")
		var buf bytes.Buffer
		require.NoError(t, ExecuteLoadExport(&buf, store, out))
		assert.Contains(t, buf.String(), "Exported 1 load runs")

		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		store.AssertExpectations(t)
	})

	t.Run("mock manager hands out stores", func(t *testing.T) {
		mgr := &MockCacheManager{}
		loads := &MockLoadStore{}
		mgr.On("GetLoadStore").Return(loads)
		mgr.On("GetStore", mock.Anything).Return(NewMemoryStore(schema.JSONNamespace))
		assert.Same(t, loads, mgr.GetLoadStore())
		assert.NotNil(t, mgr.GetStore(schema.JSONNamespace))
	})
}
