package cmd

import (
	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Paddock MCP server",
	Long:  `Launch an MCP server over stdio so AI agents can query standings, results and images.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return sharedSetup(cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		// stdout carries the protocol
		return mcp.StartMCPServer(core.WithSuppressHeader(rootCtx), cfg, cacheManager)
	},
}
