package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/farewatch/farewatch/internal/amadeus"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/iocache"
	mcp_internal "github.com/farewatch/farewatch/internal/mcp"
	"github.com/farewatch/farewatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		TopOffers: 5,
		Trips: []schema.Trip{{
			ID:           "summer",
			Origins:      []string{"HYD"},
			Destinations: []string{"ARN"},
		}},
	}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func offer(id, total string, carrier string) schema.RawOffer {
	return schema.RawOffer{
		ID:                    id,
		Price:                 &schema.RawPrice{Total: json.RawMessage(`"` + total + `"`), Currency: "INR"},
		NumberOfBookableSeats: json.RawMessage(`4`),
		Itineraries: []schema.RawItinerary{{
			Duration: "PT9H",
			Segments: []schema.RawSegment{{
				CarrierCode: carrier,
				Number:      "1",
				Departure:   schema.RawEndpoint{IATACode: "HYD", At: "2026-05-22T02:00:00"},
				Arrival:     schema.RawEndpoint{IATACode: "ARN", At: "2026-05-22T11:00:00"},
			}},
		}},
		TravelerPricings: []schema.RawTravelerPricing{{
			FareDetailsBySegment: []schema.RawFareDetail{{Cabin: "ECONOMY", Class: "K"}},
		}},
	}
}

func TestMCPServer_ToolsRegistered(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil, nil)
	for _, name := range []string{"search_offers", "get_rolling_average", "get_price_history"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	searcher := new(amadeus.MockFlightSearcher)
	s := mcp_internal.NewMCPServer(baseConfig(), searcher, nil)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{
			name:     "search_offers invalid origin",
			tool:     "search_offers",
			args:     map[string]any{"origin": "HY", "destination": "ARN", "departure_date": "2026-05-22"},
			contains: "invalid search parameters",
		},
		{
			name:     "search_offers missing departure",
			tool:     "search_offers",
			args:     map[string]any{"origin": "HYD", "destination": "ARN"},
			contains: "--depart is required",
		},
		{
			name:     "search_offers invalid cabin",
			tool:     "search_offers",
			args:     map[string]any{"origin": "HYD", "destination": "ARN", "departure_date": "2026-05-22", "cabin": "COACH"},
			contains: "invalid cabin",
		},
		{
			name:     "get_rolling_average missing trip",
			tool:     "get_rolling_average",
			args:     map[string]any{},
			contains: "trip_id is required",
		},
		{
			name:     "get_rolling_average unknown trip without route",
			tool:     "get_rolling_average",
			args:     map[string]any{"trip_id": "winter"},
			contains: "route is required",
		},
		{
			name:     "get_price_history bad limit",
			tool:     "get_price_history",
			args:     map[string]any{"limit": 0.0},
			contains: "limit must be between",
		},
		{
			name:     "get_price_history bad cabin",
			tool:     "get_price_history",
			args:     map[string]any{"cabin": "COACH"},
			contains: "invalid cabin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := s.GetTool(tt.tool)
			require.NotNil(t, tool)
			res := call(t, tool.Handler, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.contains)
		})
	}
	searcher.AssertNotCalled(t, "SearchOffers", mock.Anything, mock.Anything)
}

func TestSearchOffersTool(t *testing.T) {
	searcher := new(amadeus.MockFlightSearcher)
	searcher.On("SearchOffers", mock.Anything, schema.OfferQuery{
		Origin:        "HYD",
		Destination:   "ARN",
		DepartureDate: "2026-05-22",
		ReturnDate:    "2026-06-25",
		Cabin:         schema.Economy,
	}).Return([]schema.RawOffer{
		offer("1", "91000.00", "QR"),
		offer("2", "85000.00", "EK"),
		offer("3", "70000.00", "AI"),
	}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), searcher, nil)
	tool := s.GetTool("search_offers")
	res := call(t, tool.Handler, "search_offers", map[string]any{
		"origin":         "hyd",
		"destination":    "arn",
		"departure_date": "2026-05-22",
		"return_date":    "2026-06-25",
		"airlines":       "EK,QR",
		"max_stops":      1.0,
	})
	require.False(t, res.IsError, text(res))

	var body struct {
		Offers    []schema.NormalizedOffer `json:"offers"`
		Malformed int                      `json:"malformed"`
		Filtered  int                      `json:"filtered"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &body))
	require.Len(t, body.Offers, 2)
	assert.Equal(t, "2", body.Offers[0].ID)
	assert.Equal(t, "1", body.Offers[1].ID)
	assert.Equal(t, 1, body.Filtered)
	assert.Zero(t, body.Malformed)
	searcher.AssertExpectations(t)
}

func TestSearchOffersTool_ProviderError(t *testing.T) {
	searcher := new(amadeus.MockFlightSearcher)
	searcher.On("SearchOffers", mock.Anything, mock.Anything).
		Return(nil, &schema.ProviderCallError{Category: schema.RateLimited, StatusCode: 429})

	s := mcp_internal.NewMCPServer(baseConfig(), searcher, nil)
	res := call(t, s.GetTool("search_offers").Handler, "search_offers", map[string]any{
		"origin": "HYD", "destination": "ARN", "departure_date": "2026-05-22",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "search failed")
	assert.Contains(t, text(res), "rate_limit")
}

func TestSearchOffersTool_NoSearcher(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil, nil)
	res := call(t, s.GetTool("search_offers").Handler, "search_offers", map[string]any{
		"origin": "HYD", "destination": "ARN", "departure_date": "2026-05-22",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "not configured")
}

func TestGetRollingAverageTool(t *testing.T) {
	store := new(iocache.MockHistoryStore)
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(store)
	key := schema.BaselineKey{TripID: "summer", Route: "HYD-ARN", Cabin: schema.Business}
	store.On("RecentPrices", mock.Anything, key, schema.BaselineWindow).Return([]float64{100, 200, 300}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_rolling_average").Handler, "get_rolling_average", map[string]any{
		"trip_id": "summer",
		"cabin":   "BUSINESS",
	})
	require.False(t, res.IsError, text(res))
	assert.JSONEq(t, `{"trip_id":"summer","route":"HYD-ARN","cabin":"BUSINESS","average":200,"samples":3}`, text(res))
	store.AssertExpectations(t)
}

func TestGetRollingAverageTool_NoHistory(t *testing.T) {
	store := new(iocache.MockHistoryStore)
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(store)
	store.On("RecentPrices", mock.Anything, mock.Anything, schema.BaselineWindow).Return([]float64{}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_rolling_average").Handler, "get_rolling_average", map[string]any{
		"trip_id": "winter",
		"route":   "arn-hyd",
	})
	require.False(t, res.IsError, text(res))
	assert.JSONEq(t, `{"trip_id":"winter","route":"ARN-HYD","cabin":"ECONOMY","average":null,"samples":0}`, text(res))
}

func TestGetRollingAverageTool_StoreFailure(t *testing.T) {
	store := new(iocache.MockHistoryStore)
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(store)
	store.On("RecentPrices", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("disk I/O error"))

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_rolling_average").Handler, "get_rolling_average", map[string]any{"trip_id": "summer"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "baseline lookup failed")
}

func TestGetRollingAverageTool_NoStore(t *testing.T) {
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(nil)

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_rolling_average").Handler, "get_rolling_average", map[string]any{"trip_id": "summer"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "not initialized")
}

func TestGetPriceHistoryTool(t *testing.T) {
	store := new(iocache.MockHistoryStore)
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(store)
	filter := schema.HistoryFilter{TripID: "summer", Route: "HYD-ARN", Cabin: schema.Economy, Limit: 2}
	store.On("ListObservations", mock.Anything, filter).Return([]schema.PriceObservation{
		{ID: "b", TripID: "summer", Route: "HYD-ARN", CabinClass: schema.Economy, Price: 90000, Currency: "INR"},
		{ID: "a", TripID: "summer", Route: "HYD-ARN", CabinClass: schema.Economy, Price: 85000, Currency: "INR"},
	}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_price_history").Handler, "get_price_history", map[string]any{
		"trip_id": "summer",
		"route":   "hyd-arn",
		"cabin":   "economy",
		"limit":   2.0,
	})
	require.False(t, res.IsError, text(res))

	var observations []schema.PriceObservation
	require.NoError(t, json.Unmarshal([]byte(text(res)), &observations))
	require.Len(t, observations, 2)
	assert.Equal(t, "b", observations[0].ID)
	store.AssertExpectations(t)
}

func TestGetPriceHistoryTool_Empty(t *testing.T) {
	store := new(iocache.MockHistoryStore)
	mgr := new(iocache.MockHistoryManager)
	mgr.On("GetHistoryStore").Return(store)
	store.On("ListObservations", mock.Anything, schema.HistoryFilter{Limit: 50}).Return(nil, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), nil, mgr)
	res := call(t, s.GetTool("get_price_history").Handler, "get_price_history", map[string]any{})
	require.False(t, res.IsError, text(res))
	assert.Equal(t, "[]", text(res))
}
