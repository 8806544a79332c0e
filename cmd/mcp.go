package cmd

import (
	"log/slog"
	"os"

	"github.com/huangsam/dmgcalc/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the damage calculator MCP server",
	Long:    `Launch an MCP server that allows AI agents to compare builds and compute damage via standard tools.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Logs go to stderr since stdout carries the protocol.
		slog.SetDefault(newLogger(os.Stderr, cfg.LogLevel))
		slog.Info("starting mcp server", "history", cfg.HistoryBackend)
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
