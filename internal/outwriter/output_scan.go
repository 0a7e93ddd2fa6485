package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Scan outcome labels.
const (
	StatusScanned = "scanned"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// scanFixedWidth is the width of every scan table column except the detail.
const scanFixedWidth = 75

// ReportStatus classifies a trip report for display.
func ReportStatus(r schema.TripReport) string {
	switch {
	case r.Error != "":
		return StatusError
	case r.Skipped != "":
		return StatusSkipped
	default:
		return StatusScanned
	}
}

// PrintScanReports outputs one scan cycle, dispatching based on the output format configured.
func PrintScanReports(reports []schema.TripReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVScanReports(w, reports)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(w, reports, cfg, duration)
		}, "Wrote table")
	}
}

func writeScanTable(w io.Writer, reports []schema.TripReport, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Trip", "Route", "Status", "Offers", "Cheapest", "Drops", "Notified", "Detail"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	detailWidth := getMaxTextColumnWidth(cfg, scanFixedWidth)
	var data [][]string
	drops, notified := 0, 0
	for _, r := range reports {
		drops += r.Drops
		if r.Notified {
			notified++
		}
		data = append(data, []string{
			r.TripID,
			r.Route,
			statusLabel(r),
			offerCounts(r.Cabins),
			cheapest(r.Cabins),
			strconv.Itoa(r.Drops),
			yesNo(r.Notified),
			contract.TruncateText(reportDetail(r), detailWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	mode := ""
	if cfg.DryRun {
		mode = " (dry run)"
	}
	if _, err := fmt.Fprintf(w, "Scanned %d trips: %d drops, %d notifications%s\n", len(reports), drops, notified, mode); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scan completed in %v. History backend: %s\n", duration.Round(time.Millisecond), cfg.HistoryBackend)
	return err
}

func writeCSVScanReports(w io.Writer, reports []schema.TripReport) error {
	header := []string{"trip_id", "label", "route", "status", "cabin", "offers", "cheapest", "drops", "notified", "detail", "scanned_at", "duration_ms"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range reports {
			base := func(cabin string, offers int, cheapestPrice string) []string {
				return []string{
					r.TripID,
					r.Label,
					r.Route,
					ReportStatus(r),
					cabin,
					strconv.Itoa(offers),
					cheapestPrice,
					strconv.Itoa(r.Drops),
					strconv.FormatBool(r.Notified),
					reportDetail(r),
					r.ScannedAt.Format(time.RFC3339),
					strconv.FormatInt(r.DurationMs, 10),
				}
			}
			if len(r.Cabins) == 0 {
				if err := cw.Write(base("", 0, "")); err != nil {
					return err
				}
				continue
			}
			// One row per cabin so prices stay comparable
			for _, c := range r.Cabins {
				price := ""
				if len(c.Offers) > 0 {
					price = formatPrice(c.Offers[0].Price)
				}
				if err := cw.Write(base(string(c.Cabin), len(c.Offers), price)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func statusLabel(r schema.TripReport) string {
	status := ReportStatus(r)
	switch status {
	case StatusError:
		return contract.FatalColor.Sprint(status)
	case StatusSkipped:
		return contract.WarnColor.Sprint(status)
	default:
		return status
	}
}

func reportDetail(r schema.TripReport) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Skipped
}

// offerCounts renders "ECONOMY:5,PREMIUM_ECONOMY:3".
func offerCounts(cabins []schema.CabinOffers) string {
	if len(cabins) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cabins))
	for _, c := range cabins {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Cabin, len(c.Offers)))
	}
	return strings.Join(parts, ",")
}

// cheapest renders the lowest price across cabins with its currency.
func cheapest(cabins []schema.CabinOffers) string {
	var best *schema.NormalizedOffer
	for i := range cabins {
		if len(cabins[i].Offers) == 0 {
			continue
		}
		if o := &cabins[i].Offers[0]; best == nil || o.Price < best.Price {
			best = o
		}
	}
	if best == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", formatPrice(best.Price), best.Currency)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
