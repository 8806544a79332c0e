// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the damage calculator MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Damage Calculator Server",
		"1.0.0",
		server.WithLogging(),
	)

	if baseCfg == nil {
		baseCfg = &contract.Config{}
	}
	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compare_builds ---
	s.AddTool(mcp.NewTool("compare_builds",
		mcp.WithDescription("Compare two builds across a strength sweep from 0.5x to 1.5x base strength."),
		mcp.WithString("query", mcp.Description("Query string holding b1_<field> and b2_<field> values (e.g. 'b2_baseStrength=1500'). Missing fields use the defaults.")),
	), h.handleCompareBuilds)

	// --- 2. Tool: compute_damage ---
	s.AddTool(mcp.NewTool("compute_damage",
		mcp.WithDescription("Compute the final damage of one build at one strength value, with every formula stage."),
		mcp.WithNumber("strength", mcp.Description("Strength value to evaluate."), mcp.Required()),
		mcp.WithString("build", mcp.Description("Build to evaluate. Defaults to 'b1'."), mcp.Enum("b1", "b2")),
		mcp.WithBoolean("crit", mcp.Description("Force a critical hit.")),
		mcp.WithString("query", mcp.Description("Query string holding the build parameters.")),
	), h.handleComputeDamage)

	// --- 3. Tool: list_parameters ---
	s.AddTool(mcp.NewTool("list_parameters",
		mcp.WithDescription("List every build parameter with its label, group and default, plus the damage formula."),
	), h.handleListParameters)

	return s
}

// StartMCPServer starts the damage calculator MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
