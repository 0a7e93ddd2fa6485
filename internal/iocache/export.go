package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/parquet"
	"github.com/farewatch/farewatch/schema"
)

// ExecuteHistoryExport exports the price history and scan bookkeeping to Parquet files
// named after outputFile.
func ExecuteHistoryExport(ctx context.Context, store contract.HistoryStore, filter schema.HistoryFilter, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalObservations == 0 {
		return errors.New("no price history found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total observations: %d\n", status.TotalObservations)

	observations, err := store.ListObservations(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to retrieve observations: %w", err)
	}
	scans, err := store.ListTripScans(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve trip scans: %w", err)
	}

	historyFile := outputFile + ".price_history.parquet"
	rows := parquet.ConvertPriceObservations(observations)
	if err := parquet.WritePriceObservationsParquet(rows, historyFile); err != nil {
		return fmt.Errorf("failed to write price history: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d observations to: %s\n", len(rows), historyFile)

	scansFile := outputFile + ".trip_scans.parquet"
	scanRows := parquet.ConvertTripScanRecords(scans)
	if err := parquet.WriteTripScansParquet(scanRows, scansFile); err != nil {
		return fmt.Errorf("failed to write trip scans: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d trip scans to: %s\n", len(scanRows), scansFile)
	return nil
}
