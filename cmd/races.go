package cmd

import (
	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/spf13/cobra"
)

// resultsCmd shows the results of one round.
var resultsCmd = &cobra.Command{
	Use:   "results <season> <round>",
	Short: "Show the classified results of one round.",
	Long: `Show the finishing order of one round with grid, laps, status and points.

A round that has not been run yet prints no results rather than failing.

Examples:
  paddock results 2021 22
  paddock results current 1 --output json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: seasonSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("race results", core.ExecuteRaceResults)
	},
}

// lapsCmd shows one driver's lap times.
var lapsCmd = &cobra.Command{
	Use:   "laps <season> <round> <driver>",
	Short: "Show a driver's lap times in one round.",
	Long: `Show the lap-by-lap timing of one driver. The driver may be an id such as
max_verstappen, a three-letter code or a name.

Examples:
  paddock laps 2021 1 hamilton
  paddock laps 2021 1 VER --limit 10`,
	Args: cobra.ExactArgs(3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(cmd, args[:2])
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteLapTimes(rootCtx, cfg, cacheManager, args[2]); err != nil {
			contract.LogFatal("Cannot show lap times", err)
		}
	},
}

// careerCmd shows a driver's most recent results across seasons.
var careerCmd = &cobra.Command{
	Use:   "career <driver>",
	Short: "Show a driver's most recent race results.",
	Long: `Show the most recent results of a driver across seasons.

The driver is matched against the standings of --season, so misspelled names
like "verstapen" still resolve. Career results are always fetched live.

Examples:
  paddock career hamilton
  paddock career "verstapen" --limit 20`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plainSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteDriverResults(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot show career results", err)
		}
	},
}
