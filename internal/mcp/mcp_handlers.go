package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/workload/core"
	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	decoder contract.WorkbookDecoder
}

// run validates the request arguments and builds the filtered response.
// A non-nil tool result means the request failed and should be returned as-is.
func (h *toolHandler) run(ctx context.Context, request mcp.CallToolRequest) (*schema.WorkloadResponse, *mcp.CallToolResult) {
	cfg := h.baseCfg.Clone()
	path := request.GetString("path", "")
	assignee := request.GetString("assignee", "")
	quarter := request.GetString("quarter", "")

	if err := contract.RevalidateFilters(cfg, path, assignee, quarter); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
	}

	resp, _, err := core.GetWorkloadResults(ctx, cfg, h.decoder)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("parsing failed: %v", err))
	}
	return resp.Filter(cfg.Assignee, cfg.Quarter), nil
}

func (h *toolHandler) handleParseWorkload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, failed := h.run(ctx, request)
	if failed != nil {
		return failed, nil
	}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSummarizeWorkload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, failed := h.run(ctx, request)
	if failed != nil {
		return failed, nil
	}
	summaries := resp.Summarize()
	if summaries == nil {
		summaries = []schema.AssigneeSummary{}
	}
	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListReleases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, failed := h.run(ctx, request)
	if failed != nil {
		return failed, nil
	}
	jsonData, _ := json.MarshalIndent(resp.Releases, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
