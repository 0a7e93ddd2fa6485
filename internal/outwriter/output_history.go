package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/parquet"
	"github.com/farewatch/farewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistory outputs stored price observations, dispatching based on the output format configured.
func PrintHistory(observations []schema.PriceObservation, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, observations)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVHistory(w, observations)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return ErrParquetNeedsFile
		}
		if err := parquet.WritePriceObservationsParquet(parquet.ConvertPriceObservations(observations), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		contract.LogInfo("💾 Wrote parquet to %s", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, observations, duration)
		}, "Wrote table")
	}
}

func writeHistoryTable(w io.Writer, observations []schema.PriceObservation, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scanned At", "Trip", "Route", "Cabin", "Price", "Depart", "Return", "Airlines", "Stops"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, o := range observations {
		data = append(data, []string{
			o.ScannedAt.UTC().Format(time.DateTime),
			o.TripID,
			o.Route,
			string(o.CabinClass),
			fmt.Sprintf("%s %s", formatPrice(o.Price), o.Currency),
			o.Offer.DepartureDate,
			o.Offer.ReturnDate,
			strings.Join(o.Offer.Outbound.Airlines, "/"),
			strconv.Itoa(o.Offer.Outbound.Stops),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d observations (loaded in %v)\n", len(observations), duration.Round(time.Millisecond))
	return err
}

func writeCSVHistory(w io.Writer, observations []schema.PriceObservation) error {
	header := []string{"id", "trip_id", "route", "scanned_at", "cabin", "price", "currency", "departure_date", "return_date", "airlines", "stops"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, o := range observations {
			rec := []string{
				o.ID,
				o.TripID,
				o.Route,
				o.ScannedAt.UTC().Format(time.RFC3339),
				string(o.CabinClass),
				formatPrice(o.Price),
				o.Currency,
				o.Offer.DepartureDate,
				o.Offer.ReturnDate,
				strings.Join(o.Offer.Outbound.Airlines, "|"),
				strconv.Itoa(o.Offer.Outbound.Stops),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// BaselineResult is the printable form of one rolling-average lookup.
type BaselineResult struct {
	TripID  string            `json:"trip_id"`
	Route   string            `json:"route"`
	Cabin   schema.CabinClass `json:"cabin"`
	Mean    *float64          `json:"mean"` // nil when no history exists
	Samples int               `json:"samples"`
}

// NewBaselineResult pairs a key with its baseline.
func NewBaselineResult(key schema.BaselineKey, b schema.Baseline) BaselineResult {
	res := BaselineResult{TripID: key.TripID, Route: key.Route, Cabin: key.Cabin, Samples: b.Samples}
	if b.Valid() {
		mean := b.Mean
		res.Mean = &mean
	}
	return res
}

// PrintBaseline outputs one rolling average as JSON or a single text line.
func PrintBaseline(res BaselineResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"trip_id", "route", "cabin", "mean", "samples"}, func(cw *csv.Writer) error {
				mean := ""
				if res.Mean != nil {
					mean = formatPrice(*res.Mean)
				}
				return cw.Write([]string{res.TripID, res.Route, string(res.Cabin), mean, strconv.Itoa(res.Samples)})
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if res.Mean == nil {
				_, err := fmt.Fprintf(w, "%s %s %s: no history yet\n", res.TripID, res.Route, res.Cabin)
				return err
			}
			_, err := fmt.Fprintf(w, "%s %s %s: rolling average %s over %d observations\n",
				res.TripID, res.Route, res.Cabin, formatPrice(*res.Mean), res.Samples)
			return err
		}, "Wrote text")
	}
}
