package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/farewatch/farewatch/schema"
)

// PrintHistoryStatus prints history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Observations: %d\n", status.TotalObservations)
	_, _ = fmt.Fprintf(w, "Tracked Trips: %d\n", status.TrackedTrips)
	if status.TotalObservations > 0 {
		_, _ = fmt.Fprintf(w, "Last Scan: %s\n", status.LastScanTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Scan: %s\n", status.OldestScanTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
