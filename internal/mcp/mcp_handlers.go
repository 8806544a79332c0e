package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/statesink"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

func (h *toolHandler) newStore(query string) (*core.BuildStore, error) {
	return core.NewStoreWithSink(h.baseCfg, statesink.NewMemorySinkFromQuery(query))
}

func (h *toolHandler) handleCompareBuilds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.newStore(request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	result := store.Result()
	core.RecordRun(core.WithHistorySource(ctx, core.SourceMCP), h.mgr, result)

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleComputeDamage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strength, err := request.RequireFloat("strength")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid damage parameters: %v", err)), nil
	}
	build, err := core.ParseBuild(request.GetString("build", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid damage parameters: %v", err)), nil
	}

	store, err := h.newStore(request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("damage failed: %v", err)), nil
	}
	result, err := core.EvaluateDamage(store, core.DamageRequest{
		Strength: strength,
		Build:    build,
		Crit:     request.GetBool("crit", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("damage failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListParameters(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.BuildParamsRenderModel(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
