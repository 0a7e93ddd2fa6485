package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDates outputs cheapest-date results, dispatching based on the output format configured.
func PrintDates(dates []schema.DatePrice, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, dates)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVDates(w, dates)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDateTable(w, dates, duration)
		}, "Wrote table")
	}
}

func writeDateTable(w io.Writer, dates []schema.DatePrice, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Departure", "Return", "Nights", "Price"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, d := range dates {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			d.DepartureDate,
			d.ReturnDate,
			nights(d.DepartureDate, d.ReturnDate),
			formatPrice(d.Price),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d date options in %v\n", len(dates), duration.Round(time.Millisecond))
	return err
}

func writeCSVDates(w io.Writer, dates []schema.DatePrice) error {
	return writeCSVWithHeader(w, []string{"rank", "departure_date", "return_date", "price"}, func(cw *csv.Writer) error {
		for i, d := range dates {
			if err := cw.Write([]string{strconv.Itoa(i + 1), d.DepartureDate, d.ReturnDate, formatPrice(d.Price)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// nights counts the days between two calendar dates, or "-" when either is unparseable.
func nights(departure, ret string) string {
	d, err := time.Parse(schema.DateLayout, departure)
	if err != nil {
		return "-"
	}
	r, err := time.Parse(schema.DateLayout, ret)
	if err != nil {
		return "-"
	}
	return strconv.Itoa(int(r.Sub(d).Hours() / 24))
}
