package schema

import "time"

// CacheStatus represents the status of one cache namespace.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Namespace       string    `json:"namespace"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// LoadStatus represents the status of the load bookkeeping store.
type LoadStatus struct {
	Backend       string              `json:"backend"`
	Connected     bool                `json:"connected"`
	TotalRuns     int                 `json:"total_runs"`
	LastRunID     string              `json:"last_run_id"`
	LastRunTime   time.Time           `json:"last_run_time"`
	OldestRunTime time.Time           `json:"oldest_run_time"`
	OutcomeCounts map[LoadOutcome]int `json:"outcome_counts"`
}

// LoadSummary holds the counters recorded when a load finishes.
type LoadSummary struct {
	Drivers      int `json:"drivers"`
	Constructors int `json:"constructors"`
	Rounds       int `json:"rounds"`
	Images       int `json:"images"`
	ImageMisses  int `json:"image_misses"`
}

// LoadRunRecord represents a row from the paddock_load_runs table.
type LoadRunRecord struct {
	RunID     string
	Season    string
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   LoadOutcome
	LoadSummary
}
