package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farewatch/farewatch/internal/iocache"
	"github.com/farewatch/farewatch/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordObservations(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, loc)
	offers := []schema.NormalizedOffer{
		{ID: "1", Price: 85000, Currency: "INR", CabinClass: schema.Economy},
		{ID: "2", Price: 85000, Currency: "INR", CabinClass: schema.PremiumEconomy},
	}

	store := &iocache.MockHistoryStore{}
	store.On("AppendObservations", mock.Anything, mock.Anything).Return(nil)

	observations, err := RecordObservations(context.Background(), store, economyKey, offers, now)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	for i, obs := range observations {
		_, perr := uuid.Parse(obs.ID)
		assert.NoError(t, perr)
		assert.Equal(t, "summer", obs.TripID)
		assert.Equal(t, "HYD-ARN", obs.Route)
		assert.Equal(t, schema.Economy, obs.CabinClass)
		assert.Equal(t, now.UTC(), obs.ScannedAt)
		assert.Equal(t, time.UTC, obs.ScannedAt.Location())
		assert.Equal(t, offers[i], obs.Offer)
		assert.Equal(t, "INR", obs.Currency)
	}
	assert.NotEqual(t, observations[0].ID, observations[1].ID)

	written := store.Calls[0].Arguments.Get(1).([]schema.PriceObservation)
	assert.Equal(t, observations, written)
}

func TestRecordObservations_Empty(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	observations, err := RecordObservations(context.Background(), store, economyKey, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, observations)
	store.AssertNotCalled(t, "AppendObservations", mock.Anything, mock.Anything)
}

func TestRecordObservations_WriteFailure(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("AppendObservations", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := RecordObservations(context.Background(), store, economyKey, []schema.NormalizedOffer{{ID: "1", Price: 1}}, time.Now())
	var storeErr *schema.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "append", storeErr.Op)
}
