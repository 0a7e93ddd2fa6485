// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var cabinEnum = mcp.Enum("ECONOMY", "PREMIUM_ECONOMY", "BUSINESS", "FIRST")

// NewMCPServer initializes and configures the farewatch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, searcher contract.FlightSearcher, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Farewatch Fare Tracker",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		searcher: searcher,
		mgr:      mgr,
	}

	s.AddTool(mcp.NewTool("search_offers",
		mcp.WithDescription("Search round-trip flight offers and return them normalized, cheapest first."),
		mcp.WithString("origin", mcp.Description("Origin airport IATA code (e.g. HYD)."), mcp.Required()),
		mcp.WithString("destination", mcp.Description("Destination airport IATA code (e.g. ARN)."), mcp.Required()),
		mcp.WithString("departure_date", mcp.Description("Departure date as YYYY-MM-DD."), mcp.Required()),
		mcp.WithString("return_date", mcp.Description("Return date as YYYY-MM-DD. Omit for one-way.")),
		mcp.WithString("cabin", mcp.Description("Cabin class. Defaults to ECONOMY."), cabinEnum),
		mcp.WithString("currency", mcp.Description("ISO currency code for prices.")),
		mcp.WithString("airlines", mcp.Description("Comma-separated allow-list of operating carriers (e.g. 'EK,QR').")),
		mcp.WithNumber("max_stops", mcp.Description("Maximum stops per itinerary. Omit for no limit.")),
	), h.handleSearchOffers)

	s.AddTool(mcp.NewTool("get_rolling_average",
		mcp.WithDescription("Return the rolling average of the most recent stored prices for a trip, route and cabin."),
		mcp.WithString("trip_id", mcp.Description("Trip identifier from the configuration."), mcp.Required()),
		mcp.WithString("route", mcp.Description("History route key such as HYD-ARN. Defaults to the trip's first origin and destination.")),
		mcp.WithString("cabin", mcp.Description("Cabin class. Defaults to ECONOMY."), cabinEnum),
	), h.handleGetRollingAverage)

	s.AddTool(mcp.NewTool("get_price_history",
		mcp.WithDescription("List stored price observations, newest first."),
		mcp.WithString("trip_id", mcp.Description("Only observations for this trip.")),
		mcp.WithString("route", mcp.Description("Only observations for this route key.")),
		mcp.WithString("cabin", mcp.Description("Only observations for this cabin class."), cabinEnum),
		mcp.WithNumber("limit", mcp.Description("Maximum number of observations. Defaults to 50.")),
	), h.handleGetPriceHistory)

	return s
}

// StartMCPServer starts the farewatch MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, searcher contract.FlightSearcher, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, searcher, mgr)
	return server.ServeStdio(s)
}
