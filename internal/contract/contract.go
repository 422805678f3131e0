// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/paddock/schema"
)

// StatsAPI fetches raw payloads from the stats upstream.
// This allows the core cache-aside logic to be tested without a network.
type StatsAPI interface {
	// DriverStandings returns the drivers championship payload of a season.
	DriverStandings(ctx context.Context, season string) ([]byte, error)

	// ConstructorStandings returns the constructors championship payload of a season.
	ConstructorStandings(ctx context.Context, season string) ([]byte, error)

	// Schedule returns the race calendar payload of a season.
	Schedule(ctx context.Context, season string) ([]byte, error)

	// RaceResults returns the results payload of one round.
	RaceResults(ctx context.Context, season, round string) ([]byte, error)

	// DriverResults returns the most recent race results of a driver across seasons.
	DriverResults(ctx context.Context, driverID string, limit int) ([]byte, error)

	// LapTimes returns the lap timings of a driver in one round.
	LapTimes(ctx context.Context, season, round, driverID string, limit int) ([]byte, error)
}

// WikiPage is a page returned by a thumbnail-bearing search.
type WikiPage struct {
	PageID    int64
	Title     string
	Thumbnail string
}

// ImageAPI looks up representative images on the encyclopedia.
// Lookups return an empty URL (and no error) when the page has no thumbnail.
type ImageAPI interface {
	// LookupTitle returns the thumbnail of the page with the exact title.
	LookupTitle(ctx context.Context, title string) (string, error)

	// Search returns page identifiers for a free-text query in rank order.
	Search(ctx context.Context, query string) ([]int64, error)

	// LookupPage returns the thumbnail of the page with the given identifier.
	LookupPage(ctx context.Context, pageID int64) (string, error)

	// SearchPages runs a search and returns matching pages with their thumbnails.
	SearchPages(ctx context.Context, query string, limit int) ([]WikiPage, error)

	// Download fetches the bytes behind an image URL.
	Download(ctx context.Context, url string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetStore(ns schema.Namespace) CacheStore
	GetLoadStore() LoadStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// LoadStore defines the interface for tracking season loads.
type LoadStore interface {
	// BeginLoad records a new season load and returns its unique ID
	BeginLoad(season string, startedAt time.Time) (string, error)

	// EndLoad records how a season load finished
	EndLoad(runID string, endedAt time.Time, outcome schema.LoadOutcome, summary schema.LoadSummary) error

	// GetStatus returns status information about the load store
	GetStatus() (schema.LoadStatus, error)

	// GetAllLoadRuns returns every recorded load, oldest first
	GetAllLoadRuns() ([]schema.LoadRunRecord, error)

	// Close closes the underlying connection
	Close() error
}
