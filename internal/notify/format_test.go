package notify

import (
	"strings"
	"testing"

	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleOffer(price float64) schema.NormalizedOffer {
	return schema.NormalizedOffer{
		ID:       "1",
		Price:    price,
		Currency: "INR",
		Outbound: schema.ItinerarySummary{
			Origin:          "HYD",
			Destination:     "ARN",
			Airlines:        []string{"EK"},
			Stops:           1,
			Layovers:        []string{"DXB"},
			FlightNumbers:   []string{"EK 528", "EK 157"},
			DepartureTime:   "2026-05-22T14:30:00",
			ArrivalTime:     "2026-05-23T08:45:00",
			DurationMinutes: 750,
		},
		CabinClass: schema.Economy,
		FareFamily: "Saver",
	}
}

func sampleAlert(cabins ...schema.CabinOffers) schema.AlertContent {
	return schema.AlertContent{
		Label:          "Summer in Stockholm",
		Origin:         "HYD",
		Destination:    "ARN",
		Currency:       "INR",
		DepartureRange: schema.DateRange{Start: "2026-05-20", End: "2026-05-30"},
		ReturnRange:    schema.DateRange{Start: "2026-06-10", End: "2026-06-20"},
		Cabins:         cabins,
	}
}

func TestFormatMessage_HeaderAndFooter(t *testing.T) {
	msg := FormatMessage(sampleAlert())
	lines := strings.Split(msg, "\n")

	assert.Equal(t, "✈️ *Summer in Stockholm*", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "📅 May 20-May 30 → Jun 10-Jun 20  •  <https://www.google.com/travel/flights?q="))
	assert.Contains(t, lines[1], "flights+from+HYD+to+ARN+on+2026-05-20+return+2026-06-10")
	assert.Equal(t, strings.Repeat("─", 36), lines[len(lines)-1])
}

func TestFormatMessage_NoRangeHeader(t *testing.T) {
	alert := sampleAlert()
	alert.ReturnRange = schema.DateRange{}
	msg := FormatMessage(alert)
	assert.NotContains(t, msg, "📅")
	assert.NotContains(t, msg, "Google Flights")
}

func TestFormatMessage_OfferLines(t *testing.T) {
	offer := sampleOffer(85000)
	offer.DropPct = intPtr(10)
	offer.SeatsRemaining = 4
	offer.Baggage = "2×23kg"
	offer.BookingClass = "K"
	offer.Return = &schema.ItinerarySummary{
		Origin:          "ARN",
		Destination:     "HYD",
		Airlines:        []string{"EK"},
		Layovers:        []string{"DXB"},
		FlightNumbers:   []string{"EK 158", "EK 529"},
		DepartureTime:   "2026-06-12T16:00:00",
		ArrivalTime:     "2026-06-13T05:10:00",
		DurationMinutes: 640,
	}

	msg := FormatMessage(sampleAlert(schema.CabinOffers{Cabin: schema.Economy, Offers: []schema.NormalizedOffer{offer}}))

	assert.Contains(t, msg, "*Economy*")
	assert.Contains(t, msg, "`1` *₹85,000* Saver `EK` ⬇️10% [4 seats]")
	assert.Contains(t, msg, "    ✈ HYD→DXB→ARN • 12h30m • EK 528/EK 157 • May 22 14:30→08:45+1")
	assert.Contains(t, msg, "    ↩ ARN→DXB→HYD • 10h40m • EK 158/EK 529 • Jun 12 16:00→05:10+1")
	assert.Contains(t, msg, "    🧳 2×23kg • Class: K")
}

func TestFormatMessage_OptionalPartsOmitted(t *testing.T) {
	offer := sampleOffer(95000)
	offer.DropPct = intPtr(0)
	offer.Outbound.DurationMinutes = 0
	offer.Outbound.DepartureTime = ""

	msg := FormatMessage(sampleAlert(schema.CabinOffers{Cabin: schema.Economy, Offers: []schema.NormalizedOffer{offer}}))

	assert.Contains(t, msg, "`1` *₹95,000* Saver `EK`\n")
	assert.Contains(t, msg, "    ✈ HYD→DXB→ARN • EK 528/EK 157\n")
	assert.NotContains(t, msg, "⬇️")
	assert.NotContains(t, msg, "seats]")
	assert.NotContains(t, msg, "↩")
	assert.NotContains(t, msg, "🧳")
	assert.NotContains(t, msg, "Class:")
}

func TestFormatMessage_BookingClassWithoutBaggage(t *testing.T) {
	offer := sampleOffer(95000)
	offer.BookingClass = "Y"
	msg := FormatMessage(sampleAlert(schema.CabinOffers{Cabin: schema.Economy, Offers: []schema.NormalizedOffer{offer}}))
	assert.Contains(t, msg, "    Class: Y\n")
}

func TestFormatMessage_TopOffersLimit(t *testing.T) {
	var offers []schema.NormalizedOffer
	for i := range 8 {
		offers = append(offers, sampleOffer(float64(80000+i*1000)))
	}
	alert := sampleAlert(schema.CabinOffers{Cabin: schema.Economy, Offers: offers})

	msg := FormatMessage(alert)
	assert.Contains(t, msg, "`5` *₹84,000*")
	assert.NotContains(t, msg, "`6`")

	alert.TopOffers = 2
	msg = FormatMessage(alert)
	assert.Contains(t, msg, "`2` *₹81,000*")
	assert.NotContains(t, msg, "`3`")
}

func TestFormatMessage_CabinOrderAndEmptyCabins(t *testing.T) {
	pe := sampleOffer(120000)
	pe.CabinClass = schema.PremiumEconomy
	alert := sampleAlert(
		schema.CabinOffers{Cabin: schema.PremiumEconomy, Offers: []schema.NormalizedOffer{pe}},
		schema.CabinOffers{Cabin: schema.Business},
		schema.CabinOffers{Cabin: schema.Economy, Offers: []schema.NormalizedOffer{sampleOffer(100000)}},
	)

	msg := FormatMessage(alert)
	peIdx := strings.Index(msg, "*Premium Economy*")
	ecoIdx := strings.Index(msg, "*Economy*")
	require.NotEqual(t, -1, peIdx)
	require.NotEqual(t, -1, ecoIdx)
	assert.Less(t, peIdx, ecoIdx)
	assert.NotContains(t, msg, "*Business*")
	assert.Contains(t, msg, "💰 PE premium: ₹20,000 (+20%)")
}

func TestFormatMessage_NoPremiumLineWithOneCabin(t *testing.T) {
	msg := FormatMessage(sampleAlert(schema.CabinOffers{Cabin: schema.Economy, Offers: []schema.NormalizedOffer{sampleOffer(100000)}}))
	assert.NotContains(t, msg, "PE premium")
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		currency string
		price    float64
		expected string
	}{
		{"INR", 95000, "₹95,000"},
		{"SEK", 4321.6, "kr4,322"},
		{"USD", 999, "$999"},
		{"EUR", 1234567, "€1,234,567"},
		{"GBP", 450, "GBP 450"},
	}
	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.currency, tt.price))
		})
	}
}

func TestCompactTimes(t *testing.T) {
	assert.Equal(t, "May 22 14:30→18:45", compactTimes("2026-05-22T14:30:00", "2026-05-22T18:45:00"))
	assert.Equal(t, "May 31 23:00→06:00+2", compactTimes("2026-05-31T23:00:00", "2026-06-02T06:00:00"))
	assert.Equal(t, "", compactTimes("", "2026-05-22T18:45:00"))
	assert.Equal(t, "", compactTimes("soon", "2026-05-22T18:45:00"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12h30m", formatDuration(750))
	assert.Equal(t, "0h05m", formatDuration(5))
	assert.Equal(t, "", formatDuration(0))
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "Jun 05", shortDate("2026-06-05"))
	assert.Equal(t, "next week", shortDate("next week"))
}
