package cmd

import (
	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/spf13/cobra"
)

// runExecutor runs a simple executor and exits on failure.
func runExecutor(what string, fn core.ExecutorFunc) {
	if err := fn(rootCtx, cfg, cacheManager); err != nil {
		contract.LogFatal("Cannot show "+what, err)
	}
}

// driversCmd shows the drivers championship.
var driversCmd = &cobra.Command{
	Use:   "drivers [season]",
	Short: "Show the drivers championship standings.",
	Long: `Show the drivers championship of a season, one row per driver.

Drivers who raced for more than one team are merged into a single row listing
every team. Finished seasons are served from the cache after the first run.

Examples:
  # Current season
  paddock drivers

  # A finished season with images
  paddock drivers 2021 --images

  # Export to CSV
  paddock drivers 2008 --output csv --output-file drivers-2008.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: seasonSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("drivers standings", core.ExecuteDriverStandings)
	},
}

// constructorsCmd shows the constructors championship.
var constructorsCmd = &cobra.Command{
	Use:   "constructors [season]",
	Short: "Show the constructors championship standings.",
	Long: `Show the constructors championship of a season, one row per team.

Examples:
  paddock constructors
  paddock constructors 1998 --images --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: seasonSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("constructors standings", core.ExecuteConstructorStandings)
	},
}

// scheduleCmd shows the race calendar.
var scheduleCmd = &cobra.Command{
	Use:   "schedule [season]",
	Short: "Show the race calendar of a season.",
	Long: `Show every round of a season with its circuit and start time.

Examples:
  paddock schedule
  paddock schedule 2019 --output parquet --output-file schedule.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: seasonSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("race schedule", core.ExecuteSchedule)
	},
}
