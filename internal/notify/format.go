// Package notify renders trip alerts and delivers them to Slack webhooks.
package notify

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/farewatch/farewatch/schema"
)

const (
	googleFlightsURL = "https://www.google.com/travel/flights"
	footerWidth      = 36
	indent           = "    "
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"SEK": "kr",
	"USD": "$",
	"EUR": "€",
}

// timestampLayouts are the forms segment times arrive in.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// FormatMessage renders one trip alert as Slack mrkdwn text.
func FormatMessage(alert schema.AlertContent) string {
	lines := []string{fmt.Sprintf("✈️ *%s*", alert.Label)}

	if header := rangeHeader(alert); header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, "")

	top := alert.TopOffers
	if top <= 0 {
		top = schema.DefaultTopOffers
	}

	for _, cabin := range alert.Cabins {
		if len(cabin.Offers) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("*%s*", schema.CabinLabel(cabin.Cabin)))
		for i, offer := range cabin.Offers[:min(top, len(cabin.Offers))] {
			lines = append(lines, offerLines(i+1, offer, alert)...)
		}
		lines = append(lines, "")
	}

	if line := premiumLine(alert); line != "" {
		lines = append(lines, line)
	}
	lines = append(lines, strings.Repeat("─", footerWidth))
	return strings.Join(lines, "\n")
}

func rangeHeader(alert schema.AlertContent) string {
	dep, ret := alert.DepartureRange, alert.ReturnRange
	if dep.Start == "" || dep.End == "" || ret.Start == "" || ret.End == "" {
		return ""
	}
	return fmt.Sprintf("📅 %s-%s → %s-%s  •  <%s|Google Flights>",
		shortDate(dep.Start), shortDate(dep.End),
		shortDate(ret.Start), shortDate(ret.End),
		GoogleFlightsURL(alert.Origin, alert.Destination, dep.Start, ret.Start))
}

// GoogleFlightsURL builds a Google Flights search link for a round trip.
func GoogleFlightsURL(origin, destination, departureDate, returnDate string) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("flights from %s to %s on %s return %s", origin, destination, departureDate, returnDate))
	return googleFlightsURL + "?" + q.Encode()
}

func offerLines(rank int, offer schema.NormalizedOffer, alert schema.AlertContent) []string {
	currency := offer.Currency
	if currency == "" {
		currency = alert.Currency
	}

	head := fmt.Sprintf("`%d` *%s* %s `%s`",
		rank, FormatPrice(currency, offer.Price), offer.FareFamily, strings.Join(offer.Outbound.Airlines, "/"))
	if offer.DropPct != nil && *offer.DropPct > 0 {
		head += fmt.Sprintf(" ⬇️%d%%", *offer.DropPct)
	}
	if offer.SeatsRemaining > 0 {
		head += fmt.Sprintf(" [%d seats]", offer.SeatsRemaining)
	}

	lines := []string{head, indent + "✈ " + legDetails(offer.Outbound, alert.Origin, alert.Destination)}
	if offer.Return != nil {
		lines = append(lines, indent+"↩ "+legDetails(*offer.Return, alert.Destination, alert.Origin))
	}

	var extras []string
	if offer.Baggage != "" {
		extras = append(extras, "🧳 "+offer.Baggage)
	}
	if offer.BookingClass != "" {
		extras = append(extras, "Class: "+offer.BookingClass)
	}
	if len(extras) > 0 {
		lines = append(lines, indent+strings.Join(extras, " • "))
	}
	return lines
}

// legDetails renders route, duration, flight numbers and times of one leg.
func legDetails(leg schema.ItinerarySummary, origin, destination string) string {
	if leg.Origin != "" {
		origin = leg.Origin
	}
	if leg.Destination != "" {
		destination = leg.Destination
	}

	route := append([]string{origin}, leg.Layovers...)
	route = append(route, destination)
	parts := []string{strings.Join(route, "→")}

	if d := formatDuration(leg.DurationMinutes); d != "" {
		parts = append(parts, d)
	}
	if len(leg.FlightNumbers) > 0 {
		parts = append(parts, strings.Join(leg.FlightNumbers, "/"))
	}
	if t := compactTimes(leg.DepartureTime, leg.ArrivalTime); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " • ")
}

// premiumLine compares the cheapest premium economy fare with the cheapest economy fare.
func premiumLine(alert schema.AlertContent) string {
	var eco, pe *schema.NormalizedOffer
	for i := range alert.Cabins {
		c := &alert.Cabins[i]
		if len(c.Offers) == 0 {
			continue
		}
		switch c.Cabin {
		case schema.Economy:
			eco = &c.Offers[0]
		case schema.PremiumEconomy:
			pe = &c.Offers[0]
		}
	}
	if eco == nil || pe == nil || eco.Price <= 0 {
		return ""
	}

	currency := eco.Currency
	if currency == "" {
		currency = alert.Currency
	}
	diff := pe.Price - eco.Price
	pct := diff / eco.Price * 100
	return fmt.Sprintf("💰 PE premium: %s (+%.0f%%)", FormatPrice(currency, diff), pct)
}

// FormatPrice renders a whole-unit price with thousands separators and the
// currency symbol, or the currency code for currencies without one.
func FormatPrice(currency string, price float64) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return symbol + humanize.Comma(int64(math.Round(price)))
}

// formatDuration renders minutes as "12h30m"; zero renders nothing.
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// compactTimes renders "May 22 14:30→08:45+1".
func compactTimes(departure, arrival string) string {
	dep, ok := parseTimestamp(departure)
	if !ok {
		return ""
	}
	arr, ok := parseTimestamp(arrival)
	if !ok {
		return ""
	}

	out := dep.Format("Jan 02 15:04") + "→" + arr.Format("15:04")
	depDay := time.Date(dep.Year(), dep.Month(), dep.Day(), 0, 0, 0, 0, time.UTC)
	arrDay := time.Date(arr.Year(), arr.Month(), arr.Day(), 0, 0, 0, 0, time.UTC)
	if days := int(arrDay.Sub(depDay).Hours() / 24); days > 0 {
		out += fmt.Sprintf("+%d", days)
	}
	return out
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// shortDate renders "2026-06-15" as "Jun 15", passing other text through.
func shortDate(s string) string {
	t, err := time.Parse(schema.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 02")
}
