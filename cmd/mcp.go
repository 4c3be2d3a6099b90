package cmd

import (
	"github.com/huangsam/dashline/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [dashboard-file]",
	Short: "Start the Dashline MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents build, bucket, lay out
and analyze dashboard charts via standard tools.

The dashboard given here is the default for every tool call. Each call may
name another file with dashboard_path or a stored snapshot with snapshot.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Nothing may be printed to stdout here, it carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
