package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCounters(t *testing.T) {
	r := NewRegistry()
	r.ScanFinished(2 * time.Second)
	r.TripResult(ResultScanned)
	r.TripResult(ResultScanned)
	r.TripResult(ResultSkipped)
	r.OfferOutcome(OfferKept, 3)
	r.OfferOutcome(OfferMalformed, 0)
	r.ProviderError("rate_limit")
	r.Notification(ResultSent)
	r.DropsFound(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Scans))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Trips.WithLabelValues(ResultScanned)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Trips.WithLabelValues(ResultSkipped)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.Offers.WithLabelValues(OfferKept)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Offers.WithLabelValues(OfferMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ProviderErrors.WithLabelValues("rate_limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Notifications.WithLabelValues(ResultSent)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Drops))
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ScanFinished(time.Second)
		r.TripResult(ResultError)
		r.OfferOutcome(OfferKept, 1)
		r.ProviderError("network")
		r.Notification(ResultFailed)
		r.DropsFound(1)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.TripResult(ResultScanned)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `farewatch_trips_total{result="scanned"} 1`)
}
