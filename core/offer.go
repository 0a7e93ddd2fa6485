package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/farewatch/farewatch/schema"
	"github.com/shopspring/decimal"
)

var (
	errMissing     = errors.New("missing")
	errNonPositive = errors.New("must be positive")
)

// NormalizeResult is the outcome of normalizing one provider batch.
type NormalizeResult struct {
	Offers    []schema.NormalizedOffer // Surviving offers, cheapest first
	Malformed []error                  // One *schema.MalformedOfferError per skipped offer
	Filtered  int                      // Offers rejected by the policy
}

// NormalizeOffer converts one raw offer into its canonical form. The boolean
// is false when the policy rejects the offer; a rejected offer is not an error.
// Malformed offers return a *schema.MalformedOfferError.
func NormalizeOffer(raw schema.RawOffer, req schema.OfferRequest, policy schema.OfferPolicy) (schema.NormalizedOffer, bool, error) {
	malformed := func(field string, err error) error {
		return &schema.MalformedOfferError{OfferID: raw.ID, Field: field, Err: err}
	}

	if len(raw.Itineraries) == 0 {
		return schema.NormalizedOffer{}, false, malformed("itineraries", errMissing)
	}
	if len(raw.Itineraries[0].Segments) == 0 {
		return schema.NormalizedOffer{}, false, malformed("itineraries[0].segments", errMissing)
	}

	outbound := SummarizeItinerary(raw.Itineraries[0])
	if !policy.Allows(outbound.Airlines) || !policy.StopsAllowed(outbound.Stops) {
		return schema.NormalizedOffer{}, false, nil
	}

	fare, err := firstFareDetail(raw)
	if err != nil {
		return schema.NormalizedOffer{}, false, malformed("travelerPricings", err)
	}
	if fare.Cabin == "" {
		return schema.NormalizedOffer{}, false, malformed("cabin", errMissing)
	}

	price, err := parsePrice(raw.Price)
	if err != nil {
		return schema.NormalizedOffer{}, false, malformed("price.total", err)
	}

	seats, err := parseSeats(raw)
	if err != nil {
		return schema.NormalizedOffer{}, false, malformed("numberOfBookableSeats", err)
	}

	currency := req.Currency
	if raw.Price.Currency != "" {
		currency = raw.Price.Currency
	}
	fareFamily := fare.BrandedFare
	if fareFamily == "" {
		fareFamily = schema.DefaultFareFamily
	}

	offer := schema.NormalizedOffer{
		ID:             raw.ID,
		Price:          price,
		Currency:       currency,
		DepartureDate:  req.DepartureDate,
		ReturnDate:     req.ReturnDate,
		Outbound:       outbound,
		CabinClass:     schema.CabinClass(fare.Cabin),
		FareFamily:     fareFamily,
		BookingClass:   fare.Class,
		Baggage:        FormatBaggage(fare.IncludedCheckedBags),
		SeatsRemaining: seats,
	}

	if len(raw.Itineraries) > 1 {
		if len(raw.Itineraries[1].Segments) == 0 {
			return schema.NormalizedOffer{}, false, malformed("itineraries[1].segments", errMissing)
		}
		ret := SummarizeItinerary(raw.Itineraries[1])
		offer.Return = &ret
	}
	return offer, true, nil
}

// NormalizeOffers applies NormalizeOffer to a batch. Malformed offers are
// collected and skipped so one bad record never drops the rest.
func NormalizeOffers(raws []schema.RawOffer, req schema.OfferRequest, policy schema.OfferPolicy) NormalizeResult {
	result := NormalizeResult{Offers: make([]schema.NormalizedOffer, 0, len(raws))}
	for _, raw := range raws {
		offer, ok, err := NormalizeOffer(raw, req, policy)
		switch {
		case err != nil:
			result.Malformed = append(result.Malformed, err)
		case !ok:
			result.Filtered++
		default:
			result.Offers = append(result.Offers, offer)
		}
	}
	SortByPrice(result.Offers)
	return result
}

// SortByPrice orders offers cheapest first, keeping provider order for ties.
func SortByPrice(offers []schema.NormalizedOffer) {
	slices.SortStableFunc(offers, func(a, b schema.NormalizedOffer) int {
		return cmp.Compare(a.Price, b.Price)
	})
}

func firstFareDetail(raw schema.RawOffer) (schema.RawFareDetail, error) {
	if len(raw.TravelerPricings) == 0 || len(raw.TravelerPricings[0].FareDetailsBySegment) == 0 {
		return schema.RawFareDetail{}, errMissing
	}
	return raw.TravelerPricings[0].FareDetailsBySegment[0], nil
}

func parsePrice(p *schema.RawPrice) (float64, error) {
	if p == nil {
		return 0, errMissing
	}
	text, ok := rawScalar(p.Total)
	if !ok {
		return 0, errMissing
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	if !d.IsPositive() {
		return 0, errNonPositive
	}
	return d.InexactFloat64(), nil
}

func parseSeats(raw schema.RawOffer) (int, error) {
	text, ok := rawScalar(raw.NumberOfBookableSeats)
	if !ok {
		return 0, nil
	}
	seats, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", text)
	}
	return seats, nil
}
