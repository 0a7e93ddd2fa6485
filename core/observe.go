package core

import (
	"context"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/google/uuid"
)

// RecordObservations appends one observation per offer under the series key,
// so later baselines for the same searched cabin see them. Every observation
// of the call shares the same UTC timestamp. An empty batch writes nothing.
func RecordObservations(ctx context.Context, w contract.ObservationWriter, key schema.BaselineKey, offers []schema.NormalizedOffer, now time.Time) ([]schema.PriceObservation, error) {
	if len(offers) == 0 {
		return nil, nil
	}
	scannedAt := now.UTC()
	observations := make([]schema.PriceObservation, 0, len(offers))
	for _, offer := range offers {
		observations = append(observations, schema.PriceObservation{
			ID:         uuid.NewString(),
			TripID:     key.TripID,
			Route:      key.Route,
			ScannedAt:  scannedAt,
			CabinClass: key.Cabin,
			Price:      offer.Price,
			Currency:   offer.Currency,
			Offer:      offer,
		})
	}
	if err := w.AppendObservations(ctx, observations); err != nil {
		return nil, asStoreError("append", err)
	}
	return observations, nil
}
