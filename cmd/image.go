package cmd

import (
	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// imageCmd resolves the image of one driver or constructor.
var imageCmd = &cobra.Command{
	Use:   "image <name>",
	Short: "Find a representative image for a driver or constructor.",
	Long: `Look up an image on Wikipedia, trying the exact page title first and then
searching. Constructors also try a "<name> racing team" search. Found images are
cached; a miss is reported as "no image available" and retried next time.

Examples:
  paddock image "Max Verstappen"
  paddock image "Red Bull" --kind constructor --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plainSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		kind := schema.EntityKind(viper.GetString("kind"))
		if err := core.ExecuteImage(rootCtx, cfg, cacheManager, args[0], kind); err != nil {
			contract.LogFatal("Cannot resolve image", err)
		}
	},
}
