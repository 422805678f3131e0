package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/iocache"
	"github.com/huangsam/paddock/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = cacheConnFor(backend, connStr)
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheFilePath is the file removed when clearing a file-backed cache.
func cacheFilePath() string {
	switch {
	case cfg.CacheBackend == schema.BoltBackend:
		return cfg.CacheDBConnect
	case cfg.CacheBackend == schema.SQLiteBackend && cfg.CacheDBConnect != "":
		return cfg.CacheDBConnect
	default:
		return contract.GetCacheDBFilePath()
	}
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the query commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the stats and image cache",
	Long: `Manage the cache of upstream payloads and images.

Paddock caches the standings, schedules and results of finished seasons, and
every image URL it finds, so repeated queries never hit the network. Payloads of
the current season are never written.

Supported backends: SQLite (default), MySQL, PostgreSQL, bolt, Redis, memory or none

Subcommands:
  status - Show cache statistics per namespace
  clear  - Remove all cached data

Examples:
  paddock cache status
  PADDOCK_CACHE_BACKEND=bolt paddock cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached stats and images",
	Long: `Delete every cached payload and image from the configured backend.

For SQLite and bolt: Deletes the database file
For MySQL/PostgreSQL: Drops the json_cache, text_cache and image_cache tables
For Redis: Deletes every paddock key`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cacheFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show one block per namespace (json, text, image) with the backend,
connection state, entry count, time range and size.`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, "", ""); err != nil {
			contract.LogFatal("Failed to initialize cache", err)
		}
		for _, ns := range schema.AllNamespaces {
			status, err := iocache.Manager.GetStore(ns).GetStatus()
			if err != nil {
				contract.LogFatal("Failed to get cache status", err)
			}
			iocache.PrintCacheStatus(os.Stdout, status)
		}
	},
}
