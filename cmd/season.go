package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/spf13/cobra"
)

// seasonCmd loads a whole season concurrently.
var seasonCmd = &cobra.Command{
	Use:   "season [season]",
	Short: "Load standings, schedule, images and results of a whole season.",
	Long: `Load everything about a season at once using --workers concurrent requests.

Results are fetched for every round that has already started. A failed round is
reported without failing the load. Press Ctrl-C to cancel a load in flight.

When --load-backend is set, every load is recorded with its outcome and counts;
see "paddock loads".

Examples:
  paddock season 2021
  paddock season --workers 8 --load-backend sqlite
  paddock season 2010 --output parquet --output-file results-2010.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: seasonSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteSeason(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot load season", err)
		}
	},
}
