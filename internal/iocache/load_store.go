package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
)

// loadRunsTable is the table for season load bookkeeping.
const loadRunsTable = "paddock_load_runs"

// loadRunColumns lists the columns read back for a LoadRunRecord.
const loadRunColumns = "run_id, season, started_at, ended_at, outcome, drivers, constructors, rounds, images, image_misses"

// LoadStoreImpl implements the LoadStore interface on a SQL backend.
type LoadStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.LoadStore = &LoadStoreImpl{} // Compile-time check

// NewLoadStore creates a new LoadStore with the specified backend.
func NewLoadStore(backend schema.DatabaseBackend, connStr string) (*LoadStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &LoadStoreImpl{backend: backend}, nil
	}
	if !backend.IsSQL() {
		return nil, fmt.Errorf("unsupported load backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetLoadDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateLoadRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", loadRunsTable, err)
	}
	return &LoadStoreImpl{db: db, backend: backend}, nil
}

// getCreateLoadRunsQuery returns the CREATE TABLE query for paddock_load_runs.
// Times are unix milliseconds so every backend shares one representation.
func getCreateLoadRunsQuery(backend schema.DatabaseBackend) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id VARCHAR(36) PRIMARY KEY,
			season VARCHAR(8) NOT NULL,
			started_at BIGINT NOT NULL,
			ended_at BIGINT,
			outcome VARCHAR(32) NOT NULL,
			drivers INT NOT NULL DEFAULT 0,
			constructors INT NOT NULL DEFAULT 0,
			rounds INT NOT NULL DEFAULT 0,
			images INT NOT NULL DEFAULT 0,
			image_misses INT NOT NULL DEFAULT 0
		);
	`, quoteTableName(loadRunsTable, backend))
}

// disabled reports whether this store discards writes.
func (ls *LoadStoreImpl) disabled() bool {
	return ls.backend == schema.NoneBackend || ls.db == nil
}

// BeginLoad records a running load and returns its run ID.
func (ls *LoadStoreImpl) BeginLoad(season string, startedAt time.Time) (string, error) {
	runID := uuid.NewString()
	if ls.disabled() {
		return runID, nil
	}

	p := func(n int) string { return placeholder(ls.backend, n) }
	query := fmt.Sprintf(`INSERT INTO %s (run_id, season, started_at, outcome) VALUES (%s, %s, %s, %s)`,
		quoteTableName(loadRunsTable, ls.backend), p(1), p(2), p(3), p(4))
	if _, err := ls.db.Exec(query, runID, season, startedAt.UnixMilli(), string(schema.RunningOutcome)); err != nil {
		return "", fmt.Errorf("failed to insert load run: %w", err)
	}
	return runID, nil
}

// EndLoad records the outcome and counters of a load.
func (ls *LoadStoreImpl) EndLoad(runID string, endedAt time.Time, outcome schema.LoadOutcome, summary schema.LoadSummary) error {
	if ls.disabled() {
		return nil
	}

	p := func(n int) string { return placeholder(ls.backend, n) }
	query := fmt.Sprintf(`UPDATE %s SET ended_at = %s, outcome = %s, drivers = %s, constructors = %s,
		rounds = %s, images = %s, image_misses = %s WHERE run_id = %s`,
		quoteTableName(loadRunsTable, ls.backend), p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8))
	res, err := ls.db.Exec(query, endedAt.UnixMilli(), string(outcome), summary.Drivers, summary.Constructors,
		summary.Rounds, summary.Images, summary.ImageMisses, runID)
	if err != nil {
		return fmt.Errorf("failed to update load run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("load run %s not found", runID)
	}
	return nil
}

// Close closes the underlying connection.
func (ls *LoadStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the load store.
func (ls *LoadStoreImpl) GetStatus() (schema.LoadStatus, error) {
	status := schema.LoadStatus{
		Backend:       string(ls.backend),
		Connected:     ls.db != nil,
		OutcomeCounts: make(map[schema.LoadOutcome]int),
	}
	if ls.disabled() {
		return status, nil
	}

	table := quoteTableName(loadRunsTable, ls.backend)
	if err := ls.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	var lastMs int64
	lastQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY started_at DESC LIMIT 1", table)
	if err := ls.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastMs); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	status.LastRunTime = time.UnixMilli(lastMs)

	var oldestMs int64
	if err := ls.db.QueryRow(fmt.Sprintf("SELECT MIN(started_at) FROM %s", table)).Scan(&oldestMs); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = time.UnixMilli(oldestMs)

	rows, err := ls.db.Query(fmt.Sprintf("SELECT outcome, COUNT(*) FROM %s GROUP BY outcome", table))
	if err != nil {
		return status, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return status, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		status.OutcomeCounts[schema.LoadOutcome(outcome)] = count
	}
	return status, rows.Err()
}

// GetAllLoadRuns retrieves all load runs, oldest first.
func (ls *LoadStoreImpl) GetAllLoadRuns() ([]schema.LoadRunRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY started_at, run_id", loadRunColumns, quoteTableName(loadRunsTable, ls.backend))
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query load runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LoadRunRecord
	for rows.Next() {
		record, err := scanLoadRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load runs: %w", err)
	}
	return results, nil
}

// GetLoadRun retrieves one load run by ID.
func (ls *LoadStoreImpl) GetLoadRun(runID string) (schema.LoadRunRecord, error) {
	if ls.disabled() {
		return schema.LoadRunRecord{}, sql.ErrNoRows
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE run_id = %s",
		loadRunColumns, quoteTableName(loadRunsTable, ls.backend), placeholder(ls.backend, 1))
	return scanLoadRun(ls.db.QueryRow(query, runID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoadRun(row rowScanner) (schema.LoadRunRecord, error) {
	var record schema.LoadRunRecord
	var startedMs int64
	var endedMs sql.NullInt64
	var outcome string
	err := row.Scan(&record.RunID, &record.Season, &startedMs, &endedMs, &outcome,
		&record.Drivers, &record.Constructors, &record.Rounds, &record.Images, &record.ImageMisses)
	if errors.Is(err, sql.ErrNoRows) {
		return record, err
	}
	if err != nil {
		return record, fmt.Errorf("failed to scan load run: %w", err)
	}
	record.StartedAt = time.UnixMilli(startedMs)
	if endedMs.Valid {
		ended := time.UnixMilli(endedMs.Int64)
		record.EndedAt = &ended
	}
	record.Outcome = schema.LoadOutcome(outcome)
	return record, nil
}
