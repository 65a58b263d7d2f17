// Package core runs the workload pipeline over decoded workbooks.
package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/workload/core/agg"
	"github.com/huangsam/workload/core/parse"
	"github.com/huangsam/workload/core/validate"
	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
)

// SelectIssuesSheet picks the sheet named "issues", then "Issues", then the first sheet.
func SelectIssuesSheet(wb *schema.Workbook) (*schema.Sheet, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, schema.ErrSheetNotFound
	}
	for _, name := range []string{schema.IssuesSheet, schema.IssuesSheetTitle} {
		for i := range wb.Sheets {
			if wb.Sheets[i].Name == name {
				return &wb.Sheets[i], nil
			}
		}
	}
	return &wb.Sheets[0], nil
}

// BuildFromWorkbook runs the full pipeline over one decoded workbook.
// On failure no partial response is returned.
func BuildFromWorkbook(wb *schema.Workbook, now time.Time) (*schema.WorkloadResponse, schema.ParseStats, error) {
	res := processWorkbook(wb, now)
	return res.Response, res.Stats, res.Err
}

// processWorkbook keeps the normalized issues next to the response so several
// files can later be merged into one aggregate.
func processWorkbook(wb *schema.Workbook, now time.Time) schema.FileResult {
	sh, err := SelectIssuesSheet(wb)
	if err != nil {
		return schema.FileResult{Err: err}
	}

	issues, stats := parse.NormalizeRows(sh.Rows, now)
	stats.Sheet = sh.Name
	return processIssues(issues, stats)
}

// processIssues aggregates and validates issues from any source.
func processIssues(issues []schema.NormalizedIssue, stats schema.ParseStats) schema.FileResult {
	res := schema.FileResult{Issues: issues, Stats: stats}
	resp, err := buildValidated(issues)
	if err != nil {
		res.Err = err
		return res
	}
	res.Response = resp

	log := contract.Logger()
	log.Debug().
		Str("source", stats.Sheet).
		Int("rows", stats.Rows).
		Int("issues", stats.Issues).
		Int("skipped", stats.SkippedRows).
		Int("assignees", len(resp.Assignees)).
		Msg("Parsed issues")
	return res
}

func buildValidated(issues []schema.NormalizedIssue) (*schema.WorkloadResponse, error) {
	resp := agg.BuildWorkload(issues)
	if err := validate.Response(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MergeResults aggregates the issues of every file in input order into one response.
// The first failed file aborts the merge.
func MergeResults(results []schema.FileResult) (*schema.WorkloadResponse, schema.ParseStats, error) {
	var (
		all   []schema.NormalizedIssue
		stats schema.ParseStats
		names []string
	)
	for _, r := range results {
		if r.Err != nil {
			return nil, schema.ParseStats{}, fmt.Errorf("failed to process %s: %w", r.Path, r.Err)
		}
		all = append(all, r.Issues...)
		stats.Rows += r.Stats.Rows
		stats.Issues += r.Stats.Issues
		stats.SkippedRows += r.Stats.SkippedRows
		names = append(names, r.Stats.Sheet)
	}
	stats.Sheet = strings.Join(names, ",")

	resp, err := buildValidated(all)
	if err != nil {
		return nil, schema.ParseStats{}, err
	}
	return resp, stats, nil
}
