package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/farewatch/farewatch/core"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	searcher contract.FlightSearcher
	mgr      contract.HistoryManager
}

type searchResponse struct {
	Offers    []schema.NormalizedOffer `json:"offers"`
	Malformed int                      `json:"malformed"`
	Filtered  int                      `json:"filtered"`
}

type averageResponse struct {
	TripID  string   `json:"trip_id"`
	Route   string   `json:"route"`
	Cabin   string   `json:"cabin"`
	Average *float64 `json:"average"`
	Samples int      `json:"samples"`
}

func (h *toolHandler) handleSearchOffers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := contract.BuildOfferQuery(
		request.GetString("origin", ""),
		request.GetString("destination", ""),
		request.GetString("departure_date", ""),
		request.GetString("return_date", ""),
		request.GetString("cabin", ""),
		request.GetString("currency", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid search parameters: %v", err)), nil
	}
	if h.searcher == nil {
		return mcp.NewToolResultError("flight search is not configured (missing Amadeus credentials)"), nil
	}
	policy := schema.NewOfferPolicy(
		contract.ParseAirlines(request.GetString("airlines", "")),
		request.GetInt("max_stops", -1),
	)

	result, err := core.SearchOffers(core.WithQuiet(ctx), h.searcher, query, policy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(searchResponse{
		Offers:    result.Offers,
		Malformed: len(result.Malformed),
		Filtered:  result.Filtered,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRollingAverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := h.baselineKey(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid baseline parameters: %v", err)), nil
	}
	store := h.store()
	if store == nil {
		return mcp.NewToolResultError(core.ErrNoHistoryStore.Error()), nil
	}

	baseline, err := core.RollingAverage(ctx, store, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("baseline lookup failed: %v", err)), nil
	}

	resp := averageResponse{TripID: key.TripID, Route: key.Route, Cabin: string(key.Cabin), Samples: baseline.Samples}
	if baseline.Valid() {
		mean := baseline.Mean
		resp.Average = &mean
	}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPriceHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := schema.HistoryFilter{
		TripID: strings.TrimSpace(request.GetString("trip_id", "")),
		Route:  strings.ToUpper(strings.TrimSpace(request.GetString("route", ""))),
		Limit:  request.GetInt("limit", defaultHistoryLimit),
	}
	if filter.Limit < 1 || filter.Limit > maxHistoryLimit {
		return mcp.NewToolResultError(fmt.Sprintf("invalid history parameters: limit must be between 1 and %d", maxHistoryLimit)), nil
	}
	if c := request.GetString("cabin", ""); c != "" {
		cabin, err := contract.ParseCabin(c)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid history parameters: %v", err)), nil
		}
		filter.Cabin = cabin
	}
	store := h.store()
	if store == nil {
		return mcp.NewToolResultError(core.ErrNoHistoryStore.Error()), nil
	}

	observations, err := store.ListObservations(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	if observations == nil {
		observations = []schema.PriceObservation{}
	}
	jsonData, _ := json.MarshalIndent(observations, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// baselineKey resolves the key from the request, defaulting the route from the configured trip.
func (h *toolHandler) baselineKey(request mcp.CallToolRequest) (schema.BaselineKey, error) {
	key := schema.BaselineKey{
		TripID: strings.TrimSpace(request.GetString("trip_id", "")),
		Route:  strings.ToUpper(strings.TrimSpace(request.GetString("route", ""))),
	}
	if key.TripID == "" {
		return key, fmt.Errorf("trip_id is required")
	}
	cabin, err := contract.ParseCabin(request.GetString("cabin", ""))
	if err != nil {
		return key, err
	}
	key.Cabin = cabin

	if key.Route == "" {
		cfg := h.baseCfg.Clone()
		cfg.TripFilter = key.TripID
		trips, err := cfg.SelectTrips()
		if err != nil {
			return key, fmt.Errorf("route is required for trips not in the configuration: %w", err)
		}
		key.Route = trips[0].Route()
	}
	if key.Route == "" {
		return key, fmt.Errorf("route is required")
	}
	return key, nil
}

func (h *toolHandler) store() contract.HistoryStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetHistoryStore()
}
