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

// offerFixedWidth is the width of every offer table column except the route.
const offerFixedWidth = 70

// PrintOffers outputs normalized offers, dispatching based on the output format configured.
func PrintOffers(offers []schema.NormalizedOffer, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOffers(w, offers)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVOffers(w, offers)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeOfferTable(w, offers, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Found %d offers in %v\n", len(offers), duration.Round(time.Millisecond))
			return err
		}, "Wrote table")
	}
}

// writeOfferTable renders the human-readable offer table.
func writeOfferTable(w io.Writer, offers []schema.NormalizedOffer, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Price", "Airlines", "Stops", "Route", "Depart", "Return", "Fare", "Seats", "Drop"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	routeWidth := getMaxTextColumnWidth(cfg, offerFixedWidth)
	var data [][]string
	for i, o := range offers {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s %s", formatPrice(o.Price), o.Currency),
			strings.Join(o.Outbound.Airlines, "/"),
			formatStops(o.Outbound.Stops),
			contract.TruncateText(legRoute(o.Outbound), routeWidth),
			o.DepartureDate,
			o.ReturnDate,
			o.FareFamily,
			strconv.Itoa(o.SeatsRemaining),
			contract.GetColorDropLabel(o.DropPct),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

var offerCSVHeader = []string{
	"rank",
	"id",
	"price",
	"currency",
	"departure_date",
	"return_date",
	"cabin",
	"fare_family",
	"booking_class",
	"airlines",
	"stops",
	"route",
	"flight_numbers",
	"duration_minutes",
	"return_route",
	"baggage",
	"seats",
	"drop_pct",
}

// writeCSVOffers writes one CSV row per offer.
func writeCSVOffers(w io.Writer, offers []schema.NormalizedOffer) error {
	return writeCSVWithHeader(w, offerCSVHeader, func(cw *csv.Writer) error {
		for i, o := range offers {
			returnRoute := ""
			if o.Return != nil {
				returnRoute = legRoute(*o.Return)
			}
			rec := []string{
				strconv.Itoa(i + 1),
				o.ID,
				formatPrice(o.Price),
				o.Currency,
				o.DepartureDate,
				o.ReturnDate,
				string(o.CabinClass),
				o.FareFamily,
				o.BookingClass,
				strings.Join(o.Outbound.Airlines, "|"),
				strconv.Itoa(o.Outbound.Stops),
				legRoute(o.Outbound),
				strings.Join(o.Outbound.FlightNumbers, "|"),
				strconv.Itoa(o.Outbound.DurationMinutes),
				returnRoute,
				o.Baggage,
				strconv.Itoa(o.SeatsRemaining),
				formatDropPct(o.DropPct),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONOffers writes the offers with their rank and drop label.
func writeJSONOffers(w io.Writer, offers []schema.NormalizedOffer) error {
	type jsonOffer struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.NormalizedOffer
	}
	output := make([]jsonOffer, len(offers))
	for i, o := range offers {
		output[i] = jsonOffer{Rank: i + 1, Label: contract.GetPlainDropLabel(o.DropPct), NormalizedOffer: o}
	}
	return writeJSON(w, output)
}
