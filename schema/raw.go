package schema

import "encoding/json"

// RawOffer is one flight offer as returned by the search provider.
// Numeric fields the provider may send either as numbers or as strings
// are kept raw and parsed during normalization.
type RawOffer struct {
	ID                    string               `json:"id"`
	Price                 *RawPrice            `json:"price,omitempty"`
	NumberOfBookableSeats json.RawMessage      `json:"numberOfBookableSeats,omitempty"`
	Itineraries           []RawItinerary       `json:"itineraries,omitempty"`
	TravelerPricings      []RawTravelerPricing `json:"travelerPricings,omitempty"`
}

// RawPrice is the offer price block.
type RawPrice struct {
	Total    json.RawMessage `json:"total,omitempty"`
	Currency string          `json:"currency,omitempty"`
}

// RawItinerary is one directional journey.
type RawItinerary struct {
	Duration string       `json:"duration,omitempty"`
	Segments []RawSegment `json:"segments"`
}

// RawSegment is one flight leg.
type RawSegment struct {
	CarrierCode string        `json:"carrierCode"`
	Number      string        `json:"number,omitempty"`
	Operating   *RawOperating `json:"operating,omitempty"`
	Departure   RawEndpoint   `json:"departure"`
	Arrival     RawEndpoint   `json:"arrival"`
}

// RawOperating names the carrier actually flying a segment.
type RawOperating struct {
	CarrierCode string `json:"carrierCode,omitempty"`
}

// RawEndpoint is an airport plus a local timestamp.
type RawEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

// RawTravelerPricing holds per-traveler fare details.
type RawTravelerPricing struct {
	FareDetailsBySegment []RawFareDetail `json:"fareDetailsBySegment"`
}

// RawFareDetail is the fare record of one segment.
type RawFareDetail struct {
	Cabin               string            `json:"cabin,omitempty"`
	BrandedFare         string            `json:"brandedFare,omitempty"`
	Class               string            `json:"class,omitempty"`
	IncludedCheckedBags *BaggageAllowance `json:"includedCheckedBags,omitempty"`
}

// BaggageAllowance is the checked baggage record. Weight and Quantity keep
// their JSON text so values pass through to display unchanged.
type BaggageAllowance struct {
	Weight     json.RawMessage `json:"weight,omitempty"`
	WeightUnit string          `json:"weightUnit,omitempty"`
	Quantity   json.RawMessage `json:"quantity,omitempty"`
}

// RawDatePrice is one entry of the provider's cheapest-dates response.
type RawDatePrice struct {
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Price         struct {
		Total json.RawMessage `json:"total"`
	} `json:"price"`
}
