package cmd

import (
	"os"

	"github.com/farewatch/farewatch/core"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/notify"
	"github.com/spf13/cobra"
)

// scanCmd runs one scan cycle over the configured trips.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle over the configured trips.",
	Long: `Search every active, due trip for each cabin and sampled date pair, compare
prices with the rolling average of earlier scans, store the new observations
and post a Slack alert when a fare drops past the trip's threshold.

Trips are read from the 'trips' list of the config file. Each trip is scanned
at most once per scan_frequency_days and only inside its scan_window.

Examples:
  # Scan all trips
  farewatch scan

  # Scan one trip and print the alert instead of posting it
  farewatch scan --trip summer-stockholm --dry-run

  # Keep a JSON report of the cycle
  farewatch scan --output json --output-file scan.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		searcher, err := newSearcher()
		if err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
		if err := core.ExecuteScan(rootCtx, cfg, scanDeps(searcher)); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}

// scanDeps wires the collaborators of a scan cycle. Dry runs print alerts to stderr.
func scanDeps(searcher contract.FlightSearcher) core.Deps {
	var notifier contract.Notifier = notify.NewSlackNotifier(contract.DefaultWebhookTimeout)
	if cfg.DryRun {
		notifier = &notify.DryRunNotifier{Out: os.Stderr}
	}
	return core.Deps{
		Searcher: searcher,
		History:  historyManager,
		Notifier: notifier,
	}
}
