// Package schema has models, constants and typed errors for all parts of farewatch.
package schema

// ItinerarySummary is the flat form of one itinerary.
type ItinerarySummary struct {
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	Airlines        []string `json:"airlines"`       // Unique operating carriers, first-seen order
	Stops           int      `json:"stops"`          // Segment count minus one
	Layovers        []string `json:"layovers"`       // Arrival airport of every segment but the last
	FlightNumbers   []string `json:"flight_numbers"` // "{marketing carrier} {number}" per segment
	DepartureTime   string   `json:"departure_time"`
	ArrivalTime     string   `json:"arrival_time"`
	DurationMinutes int      `json:"duration_minutes"`
}

// NormalizedOffer is the canonical internal record for one provider offer.
type NormalizedOffer struct {
	ID             string            `json:"id"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	DepartureDate  string            `json:"departure_date"`
	ReturnDate     string            `json:"return_date"`
	Outbound       ItinerarySummary  `json:"outbound"`
	Return         *ItinerarySummary `json:"return,omitempty"` // nil for one-way or missing return data
	CabinClass     CabinClass        `json:"cabin_class"`
	FareFamily     string            `json:"fare_family"`
	BookingClass   string            `json:"booking_class"`
	Baggage        string            `json:"baggage"`
	SeatsRemaining int               `json:"seats_remaining"`
	DropPct        *int              `json:"drop_pct"`
}

// HasReturn reports whether the offer carries a return leg.
func (o NormalizedOffer) HasReturn() bool {
	return o.Return != nil
}

// OfferRequest echoes what the caller asked the provider for.
type OfferRequest struct {
	DepartureDate string
	ReturnDate    string
	Currency      string // Fallback when the offer carries none
}

// OfferPolicy is the immutable filter applied to every offer of a batch.
type OfferPolicy struct {
	allowed  map[string]struct{}
	maxStops int
}

// NewOfferPolicy builds a policy from an airline allow-list and a stop limit.
// An empty allow-list disables carrier filtering and a negative limit disables
// stop filtering.
func NewOfferPolicy(airlines []string, maxStops int) OfferPolicy {
	allowed := make(map[string]struct{}, len(airlines))
	for _, a := range airlines {
		allowed[a] = struct{}{}
	}
	return OfferPolicy{allowed: allowed, maxStops: maxStops}
}

// StopsAllowed reports whether an itinerary with the given stop count passes.
func (p OfferPolicy) StopsAllowed(stops int) bool {
	return p.maxStops < 0 || stops <= p.maxStops
}

// Allows reports whether every carrier is on the allow-list.
func (p OfferPolicy) Allows(carriers []string) bool {
	if len(p.allowed) == 0 {
		return true
	}
	for _, c := range carriers {
		if _, ok := p.allowed[c]; !ok {
			return false
		}
	}
	return true
}

// DropPolicy is the immutable threshold applied by the drop classifier.
type DropPolicy struct {
	ThresholdPct int
}

// Baseline is the rolling mean price for a history key.
// The zero value means no history exists.
type Baseline struct {
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

// Valid reports whether the baseline was computed from at least one observation.
func (b Baseline) Valid() bool {
	return b.Samples > 0
}

// BaselineKey identifies one rolling-average series.
type BaselineKey struct {
	TripID string
	Route  string
	Cabin  CabinClass
}

// DatePrice is one cheapest-date result.
type DatePrice struct {
	DepartureDate string  `json:"departure_date"`
	ReturnDate    string  `json:"return_date"`
	Price         float64 `json:"price"`
}

// OfferQuery is one flight-offers search request.
type OfferQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Cabin         CabinClass
	Currency      string
}

// DateQuery is one cheapest-dates search request.
type DateQuery struct {
	Origin        string
	Destination   string
	DepartureDate string // Optional date or date range ("2026-05-01,2026-05-31")
}
