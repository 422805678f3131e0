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

// loadsBackend reads and validates the load tracking backend.
func loadsBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if s := viper.GetString("load-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	connStr := viper.GetString("load-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// loadsSetup opens the load store without the cache.
func loadsSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadsBackend()
	if err != nil {
		return err
	}
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize load tracking: %w", err)
	}
	cfg.LoadBackend = backend
	cfg.LoadDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// loadsMigrateSetup does NOT open the store, so migrations can run on a fresh database.
func loadsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadsBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetLoadDBFilePath()
	}
	cfg.LoadBackend = backend
	cfg.LoadDBConnect = connStr
	return nil
}

// loadsCmd focused on season load bookkeeping.
var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Manage season load tracking and exports",
	Long: `Manage the record of every "paddock season" load.

When --load-backend is set, each load stores its season, start and end time,
outcome (completed, superseded or failed) and the number of drivers,
constructors, rounds and images it produced.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show load tracking statistics
  export  - Export load runs to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  paddock loads status --load-backend sqlite
  paddock loads export --load-backend sqlite --output-file loads.parquet`,
}

// loadsClearCmd clears the load runs.
var loadsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all season load tracking data",
	PreRunE: loadsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearLoads(cfg.LoadBackend, cfg.LoadDBConnect, cfg.LoadDBConnect); err != nil {
			contract.LogFatal("Failed to clear load data", err)
		}
		fmt.Println("Load data cleared successfully.")
	},
}

// loadsStatusCmd shows load tracking status.
var loadsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display load tracking statistics",
	PreRunE: loadsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetLoadStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get load status", err)
		}
		iocache.PrintLoadStatus(os.Stdout, status)
	},
}

// loadsExportCmd exports load runs to Parquet.
var loadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export season load runs to a Parquet file",
	Long: `Export every recorded load run to Parquet for pandas, DuckDB or Spark.

Examples:
  paddock loads export --load-backend sqlite --output-file loads.parquet`,
	PreRunE: loadsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteLoadExport(os.Stdout, iocache.Manager.GetLoadStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export load data", err)
		}
	},
}

// loadsMigrateCmd runs the load store migrations.
var loadsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Apply the embedded schema migrations of the load tracking table.

--target-version -1 migrates to the latest version, 0 rolls everything back and
any positive number migrates to that version.

Examples:
  paddock loads migrate --load-backend sqlite
  paddock loads migrate --load-backend postgresql --load-db-connect "host=localhost dbname=paddock" --target-version 1`,
	PreRunE: loadsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		report, err := iocache.MigrateLoads(cfg.LoadBackend, cfg.LoadDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(report)
	},
}
