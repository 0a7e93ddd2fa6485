// Package parquet provides data structures and functions for exporting price
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/farewatch/farewatch/schema"
	"github.com/parquet-go/parquet-go"
)

// PriceObservation is one row of the farewatch_price_history table, with the
// most useful offer fields flattened into columns.
type PriceObservation struct {
	// ID is the observation UUID
	ID string `parquet:"id,snappy"`

	TripID     string    `parquet:"trip_id,snappy"`
	Route      string    `parquet:"route,snappy"`
	ScannedAt  time.Time `parquet:"scanned_at,snappy"`
	CabinClass string    `parquet:"cabin_class,snappy"`
	Price      float64   `parquet:"price,snappy"`
	Currency   string    `parquet:"currency,snappy"`

	DepartureDate string `parquet:"departure_date,snappy"`
	ReturnDate    string `parquet:"return_date,snappy"`

	// Airlines is the comma-joined outbound operating carriers
	Airlines string `parquet:"airlines,snappy"`

	Stops          int32   `parquet:"stops,snappy"`
	FareFamily     string  `parquet:"fare_family,snappy"`
	BookingClass   *string `parquet:"booking_class,optional,snappy"`
	Baggage        *string `parquet:"baggage,optional,snappy"`
	SeatsRemaining int32   `parquet:"seats_remaining,snappy"`

	// OfferJSON is the full normalized offer (nullable when encoding fails)
	OfferJSON *string `parquet:"offer_json,optional,snappy"`
}

// TripScan is one row of the farewatch_trip_scans table.
type TripScan struct {
	TripID      string    `parquet:"trip_id,snappy"`
	LastScanned time.Time `parquet:"last_scanned,snappy"`
}

// WritePriceObservationsParquet writes price observations to a Parquet file.
func WritePriceObservationsParquet(data []PriceObservation, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTripScansParquet writes trip scan records to a Parquet file.
func WriteTripScansParquet(data []TripScan, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertPriceObservations converts stored observations into Parquet rows.
func ConvertPriceObservations(records []schema.PriceObservation) []PriceObservation {
	result := make([]PriceObservation, len(records))
	for i, r := range records {
		row := PriceObservation{
			ID:             r.ID,
			TripID:         r.TripID,
			Route:          r.Route,
			ScannedAt:      r.ScannedAt,
			CabinClass:     string(r.CabinClass),
			Price:          r.Price,
			Currency:       r.Currency,
			DepartureDate:  r.Offer.DepartureDate,
			ReturnDate:     r.Offer.ReturnDate,
			Airlines:       strings.Join(r.Offer.Outbound.Airlines, ","),
			Stops:          int32(r.Offer.Outbound.Stops),
			FareFamily:     r.Offer.FareFamily,
			BookingClass:   optionalString(r.Offer.BookingClass),
			Baggage:        optionalString(r.Offer.Baggage),
			SeatsRemaining: int32(r.Offer.SeatsRemaining),
		}
		if data, err := json.Marshal(r.Offer); err == nil {
			s := string(data)
			row.OfferJSON = &s
		}
		result[i] = row
	}
	return result
}

// ConvertTripScanRecords converts trip scan bookkeeping into Parquet rows.
func ConvertTripScanRecords(records []schema.TripScanRecord) []TripScan {
	result := make([]TripScan, len(records))
	for i, r := range records {
		result[i] = TripScan{TripID: r.TripID, LastScanned: r.LastScanned}
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
