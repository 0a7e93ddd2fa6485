package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/parquet"
	"github.com/farewatch/farewatch/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleOffers() []schema.NormalizedOffer {
	return []schema.NormalizedOffer{
		{
			ID:            "ek",
			Price:         85000,
			Currency:      "INR",
			DepartureDate: "2026-05-01",
			ReturnDate:    "2026-05-15",
			Outbound: schema.ItinerarySummary{
				Origin: "HYD", Destination: "ARN",
				Airlines: []string{"EK"}, Stops: 1, Layovers: []string{"DXB"},
				FlightNumbers: []string{"EK 528", "EK 157"}, DurationMinutes: 750,
			},
			Return: &schema.ItinerarySummary{
				Origin: "ARN", Destination: "HYD", Airlines: []string{"EK"}, Layovers: []string{"DXB"},
			},
			CabinClass:     schema.Economy,
			FareFamily:     "SAVER",
			BookingClass:   "K",
			Baggage:        "1PC",
			SeatsRemaining: 4,
			DropPct:        intPtr(10),
		},
		{
			ID:       "sk",
			Price:    91000.5,
			Currency: "INR",
			Outbound: schema.ItinerarySummary{
				Origin: "HYD", Destination: "ARN", Airlines: []string{"SK"}, Layovers: []string{},
			},
			CabinClass: schema.Economy,
			FareFamily: "Standard",
		},
	}
}

func textConfig(t *testing.T, mode schema.OutputMode) (*contract.Config, string) {
	path := filepath.Join(t.TempDir(), "out")
	return &contract.Config{Output: mode, OutputFile: path, Width: 160, HistoryBackend: schema.SQLiteBackend}, path
}

func readOutput(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLegRoute(t *testing.T) {
	assert.Equal(t, "HYD→DXB→ARN", legRoute(schema.ItinerarySummary{Origin: "HYD", Destination: "ARN", Layovers: []string{"DXB"}}))
	assert.Equal(t, "HYD→ARN", legRoute(schema.ItinerarySummary{Origin: "HYD", Destination: "ARN"}))
}

func TestFormatStops(t *testing.T) {
	assert.Equal(t, "nonstop", formatStops(0))
	assert.Equal(t, "1 stop", formatStops(1))
	assert.Equal(t, "2 stops", formatStops(2))
}

func TestPrintOffers_Table(t *testing.T) {
	cfg, path := textConfig(t, schema.TextOut)
	require.NoError(t, PrintOffers(sampleOffers(), cfg, 1500*time.Millisecond))

	out := readOutput(t, path)
	assert.Contains(t, out, "85000.00 INR")
	assert.Contains(t, out, "HYD→DXB→ARN")
	assert.Contains(t, out, "1 stop")
	assert.Contains(t, out, "Found 2 offers in 1.5s")
}

func TestPrintOffers_CSV(t *testing.T) {
	cfg, path := textConfig(t, schema.CSVOut)
	require.NoError(t, PrintOffers(sampleOffers(), cfg, time.Second))

	records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, offerCSVHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "ek", records[1][1])
	assert.Equal(t, "85000.00", records[1][2])
	assert.Equal(t, "EK 528|EK 157", records[1][12])
	assert.Equal(t, "ARN→DXB→HYD", records[1][14])
	assert.Equal(t, "10", records[1][17])
	assert.Equal(t, "", records[2][14])
	assert.Equal(t, "", records[2][17])
}

func TestPrintOffers_JSON(t *testing.T) {
	cfg, path := textConfig(t, schema.JSONOut)
	require.NoError(t, PrintOffers(sampleOffers(), cfg, time.Second))

	var result []map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &result))
	require.Len(t, result, 2)
	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, contract.DropValue, result[0]["label"])
	assert.Equal(t, "ek", result[0]["id"])
	assert.Contains(t, result[0], "return")
	assert.NotContains(t, result[1], "return")
	assert.Equal(t, contract.NoDropValue, result[1]["label"])
}

func TestPrintOffers_Parquet(t *testing.T) {
	cfg, _ := textConfig(t, schema.ParquetOut)
	assert.ErrorIs(t, PrintOffers(sampleOffers(), cfg, time.Second), ErrParquetUnsupported)
}

func TestPrintDates(t *testing.T) {
	dates := []schema.DatePrice{
		{DepartureDate: "2026-05-01", ReturnDate: "2026-05-15", Price: 72000},
		{DepartureDate: "2026-05-03", ReturnDate: "bad", Price: 88000.5},
	}

	t.Run("table", func(t *testing.T) {
		cfg, path := textConfig(t, schema.TextOut)
		require.NoError(t, PrintDates(dates, cfg, time.Second))
		out := readOutput(t, path)
		assert.Contains(t, out, "72000.00")
		assert.Contains(t, out, "14")
		assert.Contains(t, out, "Found 2 date options")
	})

	t.Run("csv", func(t *testing.T) {
		cfg, path := textConfig(t, schema.CSVOut)
		require.NoError(t, PrintDates(dates, cfg, time.Second))
		records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "2026-05-03", "bad", "88000.50"}, records[2])
	})

	t.Run("json", func(t *testing.T) {
		cfg, path := textConfig(t, schema.JSONOut)
		require.NoError(t, PrintDates(dates, cfg, time.Second))
		var got []schema.DatePrice
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
		assert.Equal(t, dates, got)
	})
}

func TestNights(t *testing.T) {
	assert.Equal(t, "14", nights("2026-05-01", "2026-05-15"))
	assert.Equal(t, "-", nights("2026-05-01", ""))
	assert.Equal(t, "-", nights("May", "2026-05-15"))
}

func sampleReports() []schema.TripReport {
	return []schema.TripReport{
		{
			TripID: "summer", Label: "Summer", Route: "HYD-ARN",
			Cabins: []schema.CabinOffers{
				{Cabin: schema.Economy, Offers: sampleOffers()},
				{Cabin: schema.PremiumEconomy},
			},
			Drops: 1, Notified: true,
			ScannedAt: time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC),
		},
		{TripID: "winter", Route: "HYD-CDG", Skipped: "outside scan window"},
		{TripID: "spring", Route: "HYD-LHR", Error: "history baseline read failed: timeout"},
	}
}

func TestReportStatus(t *testing.T) {
	reports := sampleReports()
	assert.Equal(t, StatusScanned, ReportStatus(reports[0]))
	assert.Equal(t, StatusSkipped, ReportStatus(reports[1]))
	assert.Equal(t, StatusError, ReportStatus(reports[2]))
}

func TestPrintScanReports_Table(t *testing.T) {
	cfg, path := textConfig(t, schema.TextOut)
	cfg.DryRun = true
	require.NoError(t, PrintScanReports(sampleReports(), cfg, 2*time.Second))

	out := readOutput(t, path)
	assert.Contains(t, out, "ECONOMY:2,PREMIUM_ECONOMY:0")
	assert.Contains(t, out, "85000.00 INR")
	assert.Contains(t, out, "outside scan window")
	assert.Contains(t, out, "Scanned 3 trips: 1 drops, 1 notifications (dry run)")
	assert.Contains(t, out, "History backend: sqlite")
}

func TestPrintScanReports_CSV(t *testing.T) {
	cfg, path := textConfig(t, schema.CSVOut)
	require.NoError(t, PrintScanReports(sampleReports(), cfg, time.Second))

	records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
	require.NoError(t, err)
	// header + 2 cabins + skipped + error
	require.Len(t, records, 5)
	assert.Equal(t, []string{"summer", "Summer", "HYD-ARN", StatusScanned, "ECONOMY", "2", "85000.00"}, records[1][:7])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, StatusSkipped, records[3][3])
	assert.Equal(t, StatusError, records[4][3])
}

func TestPrintScanReports_JSON(t *testing.T) {
	cfg, path := textConfig(t, schema.JSONOut)
	require.NoError(t, PrintScanReports(sampleReports(), cfg, time.Second))

	var got []schema.TripReport
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "summer", got[0].TripID)
	assert.Equal(t, 2, got[0].TotalOffers())
}

func TestCheapest(t *testing.T) {
	assert.Equal(t, "-", cheapest(nil))
	assert.Equal(t, "85000.00 INR", cheapest(sampleReports()[0].Cabins))
}

func sampleObservations() []schema.PriceObservation {
	offer := sampleOffers()[0]
	return []schema.PriceObservation{{
		ID: "obs-1", TripID: "summer", Route: "HYD-ARN",
		ScannedAt:  time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC),
		CabinClass: schema.Economy, Price: offer.Price, Currency: "INR", Offer: offer,
	}}
}

func TestPrintHistory(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		cfg, path := textConfig(t, schema.TextOut)
		require.NoError(t, PrintHistory(sampleObservations(), cfg, time.Second))
		out := readOutput(t, path)
		assert.Contains(t, out, "2026-04-10 08:00:00")
		assert.Contains(t, out, "Showing 1 observations")
	})

	t.Run("csv", func(t *testing.T) {
		cfg, path := textConfig(t, schema.CSVOut)
		require.NoError(t, PrintHistory(sampleObservations(), cfg, time.Second))
		records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2026-04-10T08:00:00Z", records[1][3])
	})

	t.Run("parquet", func(t *testing.T) {
		cfg, path := textConfig(t, schema.ParquetOut)
		require.NoError(t, PrintHistory(sampleObservations(), cfg, time.Second))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		reader := pq.NewGenericReader[parquet.PriceObservation](f)
		defer func() { _ = reader.Close() }()
		assert.Equal(t, int64(1), reader.NumRows())
	})

	t.Run("parquet without file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		assert.ErrorIs(t, PrintHistory(sampleObservations(), cfg, time.Second), ErrParquetNeedsFile)
	})
}

func TestPrintBaseline(t *testing.T) {
	key := schema.BaselineKey{TripID: "summer", Route: "HYD-ARN", Cabin: schema.Economy}

	cfg, path := textConfig(t, schema.TextOut)
	require.NoError(t, PrintBaseline(NewBaselineResult(key, schema.Baseline{Mean: 91234.5, Samples: 7}), cfg))
	assert.Equal(t, "summer HYD-ARN ECONOMY: rolling average 91234.50 over 7 observations\n", readOutput(t, path))

	cfg, path = textConfig(t, schema.TextOut)
	require.NoError(t, PrintBaseline(NewBaselineResult(key, schema.Baseline{}), cfg))
	assert.Equal(t, "summer HYD-ARN ECONOMY: no history yet\n", readOutput(t, path))

	cfg, path = textConfig(t, schema.JSONOut)
	require.NoError(t, PrintBaseline(NewBaselineResult(key, schema.Baseline{}), cfg))
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
	assert.Nil(t, got["mean"])
	assert.Equal(t, float64(0), got["samples"])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestGetMaxTextColumnWidth(t *testing.T) {
	assert.Equal(t, 15, getMaxTextColumnWidth(&contract.Config{Width: 40}, 50))
	assert.Equal(t, 30, getMaxTextColumnWidth(&contract.Config{Width: 120}, 70))
	assert.Equal(t, 60, getMaxTextColumnWidth(&contract.Config{Width: 400}, 70))
}
