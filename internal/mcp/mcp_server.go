// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/workload/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the workload MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, decoder contract.WorkbookDecoder) *server.MCPServer {
	s := server.NewMCPServer(
		"Workload Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		decoder: decoder,
	}

	// --- 1. Tool: parse_workload ---
	s.AddTool(mcp.NewTool("parse_workload",
		mcp.WithDescription("Parse an issues spreadsheet into per-assignee daily workload by quarter."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx or .csv spreadsheet, or a .json tracker export."), mcp.Required()),
		mcp.WithString("assignee", mcp.Description("Only keep this assignee (firstname.lastname or 'unassigned').")),
		mcp.WithString("quarter", mcp.Description("Only keep this quarter, e.g. '2026Q1'.")),
	), h.handleParseWorkload)

	// --- 2. Tool: summarize_workload ---
	s.AddTool(mcp.NewTool("summarize_workload",
		mcp.WithDescription("Summarize total and peak load per assignee and quarter."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx or .csv spreadsheet, or a .json tracker export."), mcp.Required()),
		mcp.WithString("assignee", mcp.Description("Only keep this assignee.")),
		mcp.WithString("quarter", mcp.Description("Only keep this quarter, e.g. '2026Q1'.")),
	), h.handleSummarizeWorkload)

	// --- 3. Tool: list_releases ---
	s.AddTool(mcp.NewTool("list_releases",
		mcp.WithDescription("List release names and their representative dates from an issues spreadsheet."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx or .csv spreadsheet, or a .json tracker export."), mcp.Required()),
	), h.handleListReleases)

	return s
}

// StartMCPServer starts the workload MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, decoder contract.WorkbookDecoder) error {
	s := NewMCPServer(baseCfg, decoder)
	return server.ServeStdio(s)
}
