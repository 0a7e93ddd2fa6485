package cmd

import (
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the farewatch MCP server",
	Long: `Launch an MCP server on stdio so AI agents can search fares and read the
price history via standard tools: search_offers, get_rolling_average and
get_price_history.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Without credentials the history tools still work; search reports an error.
		var searcher contract.FlightSearcher
		if client, err := newSearcher(); err == nil {
			searcher = client
		} else {
			contract.LogWarn("flight search disabled", err)
		}
		return mcp.StartMCPServer(rootCtx, cfg, searcher, historyManager)
	},
}
