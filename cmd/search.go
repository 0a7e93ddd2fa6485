package cmd

import (
	"strings"

	"github.com/farewatch/farewatch/core"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/spf13/cobra"
)

// searchCmd runs one ad-hoc offer search.
var searchCmd = &cobra.Command{
	Use:   "search ORIGIN DEST",
	Short: "Search flight offers for one route and date pair.",
	Long: `Query the Amadeus flight-offers API once and print the normalized offers,
cheapest first. Nothing is stored in the price history.

Examples:
  # Round trip in economy
  farewatch search HYD ARN --depart 2026-05-22 --return 2026-06-25

  # Business class on Emirates or Qatar with at most one stop
  farewatch search HYD ARN --depart 2026-05-22 --return 2026-06-25 \
    --cabin BUSINESS --airlines EK,QR --max-stops 1 --currency INR`,
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		depart, _ := flags.GetString("depart")
		ret, _ := flags.GetString("return")
		cabin, _ := flags.GetString("cabin")
		currency, _ := flags.GetString("currency")
		airlines, _ := flags.GetString("airlines")
		maxStops, _ := flags.GetInt("max-stops")

		query, err := contract.BuildOfferQuery(args[0], args[1], depart, ret, cabin, currency)
		if err != nil {
			contract.LogFatal("Invalid search", err)
		}
		searcher, err := newSearcher()
		if err != nil {
			contract.LogFatal("Cannot run search", err)
		}
		policy := schema.NewOfferPolicy(contract.ParseAirlines(airlines), maxStops)
		if err := core.ExecuteSearch(rootCtx, cfg, searcher, query, policy); err != nil {
			contract.LogFatal("Cannot run search", err)
		}
	},
}

// datesCmd looks up the cheapest travel dates for a route.
var datesCmd = &cobra.Command{
	Use:   "dates ORIGIN DEST",
	Short: "Show the cheapest travel dates for a route.",
	Long: `Query the Amadeus flight-dates API and print the cheapest departure and
return combinations the provider knows about.

Examples:
  farewatch dates HYD ARN
  farewatch dates HYD ARN --depart 2026-05-01,2026-05-31`,
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		depart, _ := cmd.Flags().GetString("depart")
		query := schema.DateQuery{
			Origin:        strings.ToUpper(strings.TrimSpace(args[0])),
			Destination:   strings.ToUpper(strings.TrimSpace(args[1])),
			DepartureDate: strings.TrimSpace(depart),
		}
		searcher, err := newSearcher()
		if err != nil {
			contract.LogFatal("Cannot look up dates", err)
		}
		if err := core.ExecuteDates(rootCtx, cfg, searcher, query); err != nil {
			contract.LogFatal("Cannot look up dates", err)
		}
	},
}
