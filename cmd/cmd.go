// Package cmd defines the command-line interface for farewatch.
package cmd

import (
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyBaselineCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .farewatch.yaml in . or $HOME)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("top-offers", contract.DefaultTopOffers, "Offers per cabin shown in alerts")
	rootCmd.PersistentFlags().Int("max-pairs", contract.DefaultMaxPairs, "Date pairs searched per trip and cabin")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("amadeus-base-url", contract.DefaultAmadeusBaseURL, "Amadeus API base URL")
	rootCmd.PersistentFlags().String("request-timeout", contract.DefaultRequestTimeout.String(), "Timeout for each Amadeus request")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scanCmd to Viper
	scanCmd.Flags().String("trip", "", "Only scan the trip with this id")
	scanCmd.Flags().Bool("dry-run", false, "Print alerts instead of posting them and leave the history untouched")
	if err := viper.BindPFlags(scanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scan flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address for the HTTP trigger to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Ad-hoc search flags are read directly; they are never part of the config file.
	searchCmd.Flags().String("depart", "", "Departure date (YYYY-MM-DD)")
	searchCmd.Flags().String("return", "", "Return date (YYYY-MM-DD); omit for one-way")
	searchCmd.Flags().String("cabin", string(schema.Economy), "Cabin class: ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST")
	searchCmd.Flags().String("airlines", "", "Comma-separated allow-list of operating carriers")
	searchCmd.Flags().Int("max-stops", -1, "Maximum stops per itinerary (-1 = no limit)")
	searchCmd.Flags().String("currency", "", "Currency code for prices (provider default when empty)")

	datesCmd.Flags().String("depart", "", "Departure date or range (YYYY-MM-DD or YYYY-MM-DD,YYYY-MM-DD)")

	for _, c := range []*cobra.Command{historyShowCmd, historyBaselineCmd, historyExportCmd} {
		c.Flags().String("trip-id", "", "Only history for this trip")
		c.Flags().String("route", "", "Only history for this route key (e.g. HYD-ARN)")
		c.Flags().String("cabin", "", "Only history for this cabin class")
	}
	historyShowCmd.Flags().Int("limit", 50, "Maximum number of observations (0 = all)")
	historyShowCmd.Flags().String("since", "", "Only observations scanned on or after this date (YYYY-MM-DD)")
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
