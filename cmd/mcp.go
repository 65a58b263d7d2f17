package cmd

import (
	"github.com/huangsam/workload/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the workload MCP server",
	Long:  `Launch an MCP server that allows AI agents to read issue spreadsheets via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Spreadsheets arrive per tool call, so only flags are validated here.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, decoder)
	},
}
