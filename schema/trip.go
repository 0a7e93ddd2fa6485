package schema

import "time"

// DateLayout is the calendar date format used throughout trip configuration.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar range in DateLayout form.
type DateRange struct {
	Start string `mapstructure:"start" json:"start"`
	End   string `mapstructure:"end" json:"end"`
}

// Trip is one tracked journey as configured in the trips list.
type Trip struct {
	ID                 string       `mapstructure:"id" json:"id"`
	Label              string       `mapstructure:"label" json:"label"`
	Active             *bool        `mapstructure:"active" json:"active,omitempty"`
	Origins            []string     `mapstructure:"origins" json:"origins"`
	Destinations       []string     `mapstructure:"destinations" json:"destinations"`
	Airlines           []string     `mapstructure:"airlines" json:"airlines"`
	CabinClasses       []CabinClass `mapstructure:"cabin_classes" json:"cabin_classes"`
	MaxStops           *int         `mapstructure:"max_stops" json:"max_stops,omitempty"`
	DepartureDateRange DateRange    `mapstructure:"departure_date_range" json:"departure_date_range"`
	ReturnDateRange    DateRange    `mapstructure:"return_date_range" json:"return_date_range"`
	MinTripDays        int          `mapstructure:"min_trip_days" json:"min_trip_days"`
	MaxTripDays        int          `mapstructure:"max_trip_days" json:"max_trip_days"`
	ScanWindow         DateRange    `mapstructure:"scan_window" json:"scan_window"`
	ScanFrequencyDays  int          `mapstructure:"scan_frequency_days" json:"scan_frequency_days"`
	DropThresholdPct   int          `mapstructure:"alert_on_rolling_avg_drop_pct" json:"alert_on_rolling_avg_drop_pct"`
	AlwaysNotify       bool         `mapstructure:"always_notify" json:"always_notify"`
	Currency           string       `mapstructure:"currency" json:"currency"`
	WebhookURL         string       `mapstructure:"slack_webhook_url" json:"slack_webhook_url,omitempty"`
}

// IsActive reports whether the trip should be considered by a scan. Trips
// without an explicit flag are active.
func (t Trip) IsActive() bool {
	return t.Active == nil || *t.Active
}

// StopLimit returns the configured stop limit, or -1 when the trip has none.
func (t Trip) StopLimit() int {
	if t.MaxStops == nil {
		return -1
	}
	return *t.MaxStops
}

// Route returns the history route key, built from the first origin and destination.
func (t Trip) Route() string {
	if len(t.Origins) == 0 || len(t.Destinations) == 0 {
		return ""
	}
	return t.Origins[0] + "-" + t.Destinations[0]
}

// DatePair is one departure/return combination to search.
type DatePair struct {
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
}

// CabinOffers groups the offers found for one cabin class.
type CabinOffers struct {
	Cabin  CabinClass        `json:"cabin"`
	Offers []NormalizedOffer `json:"offers"`
}

// AlertContent is everything the notifier needs to render one trip message.
type AlertContent struct {
	Label          string
	Origin         string
	Destination    string
	Currency       string
	DepartureRange DateRange
	ReturnRange    DateRange
	Cabins         []CabinOffers
	TopOffers      int
}

// TripReport summarizes one trip's outcome in a scan cycle.
type TripReport struct {
	TripID     string        `json:"trip_id"`
	Label      string        `json:"label"`
	Route      string        `json:"route"`
	Skipped    string        `json:"skipped,omitempty"`
	Error      string        `json:"error,omitempty"`
	Cabins     []CabinOffers `json:"cabins,omitempty"`
	Drops      int           `json:"drops"`
	Notified   bool          `json:"notified"`
	ScannedAt  time.Time     `json:"scanned_at"`
	DurationMs int64         `json:"duration_ms"`
}

// TotalOffers counts offers across all cabins.
func (r TripReport) TotalOffers() int {
	n := 0
	for _, c := range r.Cabins {
		n += len(c.Offers)
	}
	return n
}
