package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/huangsam/paddock/core"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager

	// load_season calls share one loader so a new load supersedes the last
	loaderOnce sync.Once
	loader     *core.SeasonLoader
}

// configFor copies the base config and applies the common tool arguments.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("season", ""); s != "" {
		cfg.Season = s
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	cfg.Images = request.GetBool("images", cfg.Images)
	return cfg
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleDriverStandings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	drivers, err := core.GetDriverStandingsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("driver standings failed: %v", err)), nil
	}
	return jsonResult(schema.LabelDrivers(drivers)), nil
}

func (h *toolHandler) handleConstructorStandings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	constructors, err := core.GetConstructorStandingsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("constructor standings failed: %v", err)), nil
	}
	return jsonResult(schema.LabelConstructors(constructors)), nil
}

func (h *toolHandler) handleRaceSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	races, err := core.GetScheduleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("race schedule failed: %v", err)), nil
	}
	return jsonResult(races), nil
}

func (h *toolHandler) handleRaceResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	round, err := contract.ValidateRound(request.GetString("round", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid race parameters: %v", err)), nil
	}
	cfg.Round = round

	race, err := core.GetRaceResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("race results failed: %v", err)), nil
	}
	return jsonResult(race), nil
}

func (h *toolHandler) handleResolveImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	name := request.GetString("name", "")
	kind := schema.EntityKind(request.GetString("kind", ""))
	if _, ok := schema.ValidEntityKinds[kind]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid image parameters: kind %q must be driver or constructor", kind)), nil
	}

	ref, err := core.GetImageResult(ctx, cfg, h.mgr, name, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("image lookup failed: %v", err)), nil
	}
	return jsonResult(struct {
		schema.ImageRef
		Available bool `json:"available"`
	}{ref, ref.Available()}), nil
}

// seasonLoader returns the loader shared by every load_season call.
func (h *toolHandler) seasonLoader(ctx context.Context) *core.SeasonLoader {
	h.loaderOnce.Do(func() {
		h.loader = core.NewServices(h.baseCfg, h.mgr, core.WithLogger(*zerolog.Ctx(ctx))).Loader
	})
	return h.loader
}

func (h *toolHandler) handleLoadSeason(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	snap, err := h.seasonLoader(ctx).Load(ctx, cfg.Season)
	switch {
	case core.IsSuperseded(err):
		return mcp.NewToolResultError("season load was superseded by a newer load_season call"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("season load failed: %v", err)), nil
	}

	races := make([]schema.Race, 0, len(snap.Results))
	for _, race := range snap.Results {
		races = append(races, race)
	}
	return jsonResult(struct {
		*schema.SeasonSnapshot
		Summary schema.LoadSummary   `json:"summary"`
		Winners []schema.RoundWinner `json:"winners"`
	}{snap, snap.Summary(), core.SeasonWinners(races)}), nil
}
