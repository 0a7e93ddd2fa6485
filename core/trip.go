package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
)

// Date pairs are sampled every other day on both ends.
const pairStepDays = 2

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateTrip checks a trip definition before any provider or store access.
func ValidateTrip(trip schema.Trip) error {
	if trip.ID == "" {
		return &schema.ValidationError{Field: "id", Value: trip.ID}
	}
	if len(trip.Origins) == 0 {
		return &schema.ValidationError{Field: "origins", Value: ""}
	}
	if len(trip.Destinations) == 0 {
		return &schema.ValidationError{Field: "destinations", Value: ""}
	}
	for _, code := range trip.Origins {
		if err := contract.ValidateIATA("origin", code); err != nil {
			return err
		}
	}
	for _, code := range trip.Destinations {
		if err := contract.ValidateIATA("destination", code); err != nil {
			return err
		}
	}
	if len(trip.CabinClasses) == 0 {
		return &schema.ValidationError{Field: "cabin_classes", Value: ""}
	}
	for _, cabin := range trip.CabinClasses {
		if _, ok := schema.ValidCabinClasses[cabin]; !ok {
			return &schema.ValidationError{Field: "cabin_class", Value: string(cabin)}
		}
	}
	ranges := []struct {
		field string
		r     schema.DateRange
	}{
		{"departure_date_range", trip.DepartureDateRange},
		{"return_date_range", trip.ReturnDateRange},
		{"scan_window", trip.ScanWindow},
	}
	for _, rr := range ranges {
		if _, _, err := parseRange(rr.field, rr.r); err != nil {
			return err
		}
	}
	if trip.MinTripDays <= 0 {
		return &schema.ValidationError{Field: "min_trip_days", Value: strconv.Itoa(trip.MinTripDays)}
	}
	if trip.MaxTripDays < trip.MinTripDays {
		return &schema.ValidationError{Field: "max_trip_days", Value: strconv.Itoa(trip.MaxTripDays)}
	}
	if trip.ScanFrequencyDays < 1 {
		return &schema.ValidationError{Field: "scan_frequency_days", Value: strconv.Itoa(trip.ScanFrequencyDays)}
	}
	if trip.DropThresholdPct < 0 {
		return &schema.ValidationError{Field: "alert_on_rolling_avg_drop_pct", Value: strconv.Itoa(trip.DropThresholdPct)}
	}
	if trip.MaxStops != nil && *trip.MaxStops < 0 {
		return &schema.ValidationError{Field: "max_stops", Value: strconv.Itoa(*trip.MaxStops)}
	}
	if trip.Currency != "" && !currencyPattern.MatchString(trip.Currency) {
		return &schema.ValidationError{Field: "currency", Value: trip.Currency}
	}
	return nil
}

// ShouldScan decides whether a trip is due. When it is not, the reason
// explains why.
func ShouldScan(trip schema.Trip, lastScanned time.Time, hasLast bool, today time.Time) (bool, string) {
	start, end, err := parseRange("scan_window", trip.ScanWindow)
	if err != nil {
		return false, err.Error()
	}
	day := truncateDay(today)
	if day.Before(start) || day.After(end) {
		return false, "outside scan window"
	}
	if hasLast {
		elapsed := daysBetween(truncateDay(lastScanned), day)
		if elapsed < trip.ScanFrequencyDays {
			return false, fmt.Sprintf("scanned %d day(s) ago", elapsed)
		}
	}
	return true, ""
}

// GenerateDatePairs enumerates departure and return dates every other day
// and keeps pairs whose trip length lies within [minDays, maxDays]. When more
// than maxPairs qualify, an evenly spaced sample of maxPairs is returned.
func GenerateDatePairs(dep, ret schema.DateRange, minDays, maxDays, maxPairs int) ([]schema.DatePair, error) {
	depStart, depEnd, err := parseRange("departure_date_range", dep)
	if err != nil {
		return nil, err
	}
	retStart, retEnd, err := parseRange("return_date_range", ret)
	if err != nil {
		return nil, err
	}

	var pairs []schema.DatePair
	for d := depStart; !d.After(depEnd); d = d.AddDate(0, 0, pairStepDays) {
		for r := retStart; !r.After(retEnd); r = r.AddDate(0, 0, pairStepDays) {
			length := daysBetween(d, r)
			if length < minDays || length > maxDays {
				continue
			}
			pairs = append(pairs, schema.DatePair{
				DepartureDate: d.Format(schema.DateLayout),
				ReturnDate:    r.Format(schema.DateLayout),
			})
		}
	}

	if maxPairs <= 0 || len(pairs) <= maxPairs {
		return pairs, nil
	}
	step := len(pairs) / maxPairs
	sampled := make([]schema.DatePair, 0, maxPairs)
	for i := range maxPairs {
		sampled = append(sampled, pairs[i*step])
	}
	return sampled, nil
}

func parseRange(field string, r schema.DateRange) (time.Time, time.Time, error) {
	start, err := time.Parse(schema.DateLayout, r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, &schema.ValidationError{Field: field + ".start", Value: r.Start}
	}
	end, err := time.Parse(schema.DateLayout, r.End)
	if err != nil {
		return time.Time{}, time.Time{}, &schema.ValidationError{Field: field + ".end", Value: r.End}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &schema.ValidationError{Field: field, Value: r.Start + ".." + r.End}
	}
	return start, end, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
