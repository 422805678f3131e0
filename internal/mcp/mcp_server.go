// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Paddock MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Paddock F1 Stats Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("get_driver_standings",
		mcp.WithDescription("Get the drivers championship standings of a Formula 1 season."),
		mcp.WithString("season", mcp.Description("Season year, or 'current'. Defaults to the configured season.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of drivers returned.")),
		mcp.WithBoolean("images", mcp.Description("Attach a representative image URL to every driver.")),
	), h.handleDriverStandings)

	s.AddTool(mcp.NewTool("get_constructor_standings",
		mcp.WithDescription("Get the constructors championship standings of a Formula 1 season."),
		mcp.WithString("season", mcp.Description("Season year, or 'current'.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of constructors returned.")),
		mcp.WithBoolean("images", mcp.Description("Attach a representative image URL to every constructor.")),
	), h.handleConstructorStandings)

	s.AddTool(mcp.NewTool("get_race_schedule",
		mcp.WithDescription("Get the race calendar of a Formula 1 season, one race per round."),
		mcp.WithString("season", mcp.Description("Season year, or 'current'.")),
	), h.handleRaceSchedule)

	s.AddTool(mcp.NewTool("get_race_results",
		mcp.WithDescription("Get the classified results of one round. Returns null if the round has not been run."),
		mcp.WithString("round", mcp.Description("Round number within the season."), mcp.Required()),
		mcp.WithString("season", mcp.Description("Season year, or 'current'.")),
	), h.handleRaceResults)

	s.AddTool(mcp.NewTool("resolve_entity_image",
		mcp.WithDescription("Find a representative image for a driver or constructor."),
		mcp.WithString("name", mcp.Description("Driver full name or constructor name."), mcp.Required()),
		mcp.WithString("kind", mcp.Description("Entity kind."), mcp.Enum("driver", "constructor"), mcp.Required()),
	), h.handleResolveImage)

	s.AddTool(mcp.NewTool("load_season",
		mcp.WithDescription("Load standings, schedule, images and results of a whole season. A new load cancels the one in flight."),
		mcp.WithString("season", mcp.Description("Season year, or 'current'.")),
	), h.handleLoadSeason)

	return s
}

// StartMCPServer starts the Paddock MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
