// Package cmd defines the command-line interface for paddock.
package cmd

import (
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(constructorsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(lapsCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(loadsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the loads subcommands to the parent loads command
	loadsCmd.AddCommand(loadsClearCmd)
	loadsCmd.AddCommand(loadsStatusCmd)
	loadsCmd.AddCommand(loadsExportCmd)
	loadsCmd.AddCommand(loadsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("season", contract.CurrentSeason, "Season year, or 'current' for the calendar year")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("images", false, "Resolve a representative image for every driver and constructor")
	rootCmd.PersistentFlags().Bool("image-bytes", false, "Also download and cache driver image bytes")
	rootCmd.PersistentFlags().Int("thumb-size", contract.DefaultThumbSize, "Requested thumbnail width in pixels")
	rootCmd.PersistentFlags().String("stats-base-url", contract.DefaultStatsBaseURL, "Base URL of the Ergast-compatible stats API")
	rootCmd.PersistentFlags().String("wiki-base-url", contract.DefaultWikiBaseURL, "MediaWiki API endpoint used for images")
	rootCmd.PersistentFlags().String("http-timeout", contract.DefaultHTTPTimeout.String(), "Timeout for each upstream request")
	rootCmd.PersistentFlags().String("user-agent", contract.DefaultUserAgent, "User-Agent sent to upstream APIs")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: trace or debug or info or warn or error or disabled")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or bolt or redis or memory or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for the cache backend (e.g., user:pass@tcp(host:port)/dbname or redis://host:6379/0)")
	rootCmd.PersistentFlags().String("load-backend", "", "Season load tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("load-db-connect", "", "Database connection string for load tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of imageCmd to Viper
	imageCmd.Flags().String("kind", string(schema.DriverEntity), "Entity kind: driver or constructor")
	if err := viper.BindPFlags(imageCmd.Flags()); err != nil {
		contract.LogFatal("Error binding image flags", err)
	}

	// Bind all flags of loadsMigrateCmd to Viper
	loadsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(loadsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding loads migrate flags", err)
	}
}
