package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/farewatch/farewatch/core"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/iocache"
	"github.com/farewatch/farewatch/internal/outwriter"
	"github.com/farewatch/farewatch/schema"
	"github.com/spf13/cobra"
)

// historyStore returns the open history store or exits.
func historyStore() contract.HistoryStore {
	store := historyManager.GetHistoryStore()
	if store == nil {
		contract.LogFatal("Cannot read history", core.ErrNoHistoryStore)
	}
	return store
}

// historyFilter builds a filter from the shared history flags.
func historyFilter(cmd *cobra.Command) (schema.HistoryFilter, error) {
	flags := cmd.Flags()
	tripID, _ := flags.GetString("trip-id")
	route, _ := flags.GetString("route")
	cabinStr, _ := flags.GetString("cabin")

	filter := schema.HistoryFilter{
		TripID: strings.TrimSpace(tripID),
		Route:  strings.ToUpper(strings.TrimSpace(route)),
	}
	if cabinStr != "" {
		cabin, err := contract.ParseCabin(cabinStr)
		if err != nil {
			return filter, err
		}
		filter.Cabin = cabin
	}
	if flags.Lookup("limit") != nil {
		filter.Limit, _ = flags.GetInt("limit")
		if filter.Limit < 0 {
			return filter, fmt.Errorf("--limit must not be negative (received %d)", filter.Limit)
		}
	}
	if flags.Lookup("since") != nil {
		if since, _ := flags.GetString("since"); since != "" {
			t, err := time.Parse(schema.DateLayout, since)
			if err != nil {
				return filter, fmt.Errorf("invalid --since '%s': %w", since, err)
			}
			filter.Since = t
		}
	}
	return filter, nil
}

// historyCmd focused on price history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the price history",
	Long: `Inspect and manage the stored price observations that rolling averages are
computed from.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no history)

Subcommands:
  status   - Show history statistics and connection info
  show     - List stored observations
  baseline - Show the rolling average for a trip, route and cabin
  export   - Write the history to Parquet files
  clear    - Remove all stored history
  migrate  - Run schema migrations`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, connection state, observation counts, tracked trips,
first and last scan times, and row counts per table.

Examples:
  farewatch history status
  FAREWATCH_HISTORY_BACKEND=postgresql FAREWATCH_HISTORY_DB_CONNECT="..." farewatch history status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyShowCmd lists observations.
var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored price observations, newest first",
	Long: `List stored price observations, newest first, narrowed by trip, route,
cabin and scan date.

Examples:
  farewatch history show --trip-id summer-stockholm --cabin ECONOMY
  farewatch history show --since 2026-04-01 --limit 0 --output csv --output-file history.csv
  farewatch history show --output parquet --output-file history.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filter, err := historyFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid history filter", err)
		}
		start := time.Now()
		observations, err := historyStore().ListObservations(rootCtx, filter)
		if err != nil {
			contract.LogFatal("Failed to list history", err)
		}
		if err := outwriter.PrintHistory(observations, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to print history", err)
		}
	},
}

// historyBaselineCmd shows one rolling average.
var historyBaselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the rolling average for a trip, route and cabin",
	Long: fmt.Sprintf(`Compute the mean of the %d most recent stored prices for one trip, route
and cabin; this is the baseline drops are measured against.

The route defaults to the trip's first origin and destination and the cabin
defaults to ECONOMY.

Examples:
  farewatch history baseline --trip-id summer-stockholm
  farewatch history baseline --trip-id summer-stockholm --cabin BUSINESS --output json`, schema.BaselineWindow),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filter, err := historyFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid baseline key", err)
		}
		key, err := baselineKey(filter)
		if err != nil {
			contract.LogFatal("Invalid baseline key", err)
		}
		baseline, err := core.RollingAverage(rootCtx, historyStore(), key)
		if err != nil {
			contract.LogFatal("Failed to compute baseline", err)
		}
		if err := outwriter.PrintBaseline(outwriter.NewBaselineResult(key, baseline), cfg); err != nil {
			contract.LogFatal("Failed to print baseline", err)
		}
	},
}

// baselineKey completes a filter into a key, looking the route up from the configured trip.
func baselineKey(filter schema.HistoryFilter) (schema.BaselineKey, error) {
	key := schema.BaselineKey{TripID: filter.TripID, Route: filter.Route, Cabin: filter.Cabin}
	if key.TripID == "" {
		return key, errors.New("--trip-id is required")
	}
	if key.Cabin == "" {
		key.Cabin = schema.Economy
	}
	if key.Route == "" {
		scoped := cfg.Clone()
		scoped.TripFilter = key.TripID
		trips, err := scoped.SelectTrips()
		if err != nil {
			return key, fmt.Errorf("--route is required for trips not in the config: %w", err)
		}
		key.Route = trips[0].Route()
	}
	return key, nil
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the price history to Parquet for BI tools and analytics",
	Long: `Export stored observations and trip scan bookkeeping to Parquet.

Writes two files next to --output-file:
- <output-file>.price_history.parquet
- <output-file>.trip_scans.parquet

Examples:
  farewatch history export --output-file farewatch
  duckdb -c "SELECT route, avg(price) FROM read_parquet('farewatch.price_history.parquet') GROUP BY route"`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filter, err := historyFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid history filter", err)
		}
		if err := iocache.ExecuteHistoryExport(rootCtx, historyStore(), filter, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored price history",
	Long: `Delete all stored observations and trip scan times from the configured backend.
Rolling averages start over from the next scan and every trip becomes due.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  farewatch history clear
  FAREWATCH_HISTORY_BACKEND=mysql FAREWATCH_HISTORY_DB_CONNECT="..." farewatch history clear`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := cfg.HistoryDBConnect
		if dbPath == "" {
			dbPath = iocache.GetHistoryDBFilePath()
		}
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbPath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the price history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  farewatch history migrate

  # Rollback to initial state
  farewatch history migrate --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
