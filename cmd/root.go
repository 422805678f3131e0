package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/iocache"
	"github.com/huangsam/paddock/schema"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. sharedSetup attaches the logger to it.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the persistence manager used by the commands.
var cacheManager contract.CacheManager

// clock decides what the current season is.
var clock = clockwork.NewRealClock()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "paddock",
	Short:              "Browse Formula 1 standings, races and results from the terminal.",
	Long:               `Paddock fetches Formula 1 statistics, caches finished seasons and finds images for drivers and teams.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".paddock") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("PADDOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("season", contract.CurrentSeason)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("thumb-size", contract.DefaultThumbSize)
	viper.SetDefault("stats-base-url", contract.DefaultStatsBaseURL)
	viper.SetDefault("wiki-base-url", contract.DefaultWikiBaseURL)
	viper.SetDefault("http-timeout", contract.DefaultHTTPTimeout.String())
	viper.SetDefault("user-agent", contract.DefaultUserAgent)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("load-backend", "")
	viper.SetDefault("load-db-connect", "")
	viper.SetDefault("color", "yes")
}

// loadConfigFile reads the config file if one exists.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
// seasonArgs are the [season [round]] positional arguments of the command.
func sharedSetup(_ *cobra.Command, seasonArgs []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.SeasonArg, input.RoundArg = "", ""
	if len(seasonArgs) > 0 {
		input.SeasonArg = seasonArgs[0]
	}
	if len(seasonArgs) > 1 {
		input.RoundArg = seasonArgs[1]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input, clock.Now()); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors
	setupLogger()

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cacheConnFor(cfg.CacheBackend, cfg.CacheDBConnect), cfg.LoadBackend, cfg.LoadDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}
	return nil
}

// setupLogger attaches the process logger to rootCtx.
func setupLogger() {
	level, err := contract.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		contract.LogWarn("Falling back to warn logging", err)
	}
	logger := contract.NewLogger(level, os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
	rootCtx = logger.WithContext(rootCtx)
}

// cacheConnFor defaults the bolt file path, which shares the connection flag.
func cacheConnFor(backend schema.DatabaseBackend, connStr string) string {
	if backend == schema.BoltBackend && connStr == "" {
		return contract.GetBoltFilePath()
	}
	return connStr
}

// seasonSetupWrapper treats every positional argument as [season [round]].
func seasonSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(cmd, args)
}

// plainSetupWrapper ignores positional arguments for season resolution.
func plainSetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(cmd, nil)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the cache manager used instead of the global one.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
