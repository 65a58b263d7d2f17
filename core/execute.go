package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/outwriter"
	"github.com/huangsam/workload/schema"
)

// ExecutorFunc defines the function signature for commands that read spreadsheets.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, decoder contract.WorkbookDecoder) error

// GetWorkloadResults builds one merged response from every configured file.
func GetWorkloadResults(ctx context.Context, cfg *contract.Config, decoder contract.WorkbookDecoder) (*schema.WorkloadResponse, schema.ParseStats, error) {
	if len(cfg.Files) == 0 {
		return nil, schema.ParseStats{}, errors.New("at least one spreadsheet is required")
	}
	results := BuildFiles(ctx, decoder, cfg.Files, cfg.Workers, cfg.Now)
	if len(results) == 1 {
		r := results[0]
		return r.Response, r.Stats, r.Err
	}
	return MergeResults(results)
}

// ExecuteParse runs the pipeline and prints the (filtered) workload.
// It serves as the main entry point for the 'parse' command.
func ExecuteParse(ctx context.Context, cfg *contract.Config, decoder contract.WorkbookDecoder) error {
	start := time.Now()
	resp, stats, err := GetWorkloadResults(ctx, cfg, decoder)
	if err != nil {
		return err
	}
	filtered := resp.Filter(cfg.Assignee, cfg.Quarter)
	if filtered != resp && len(filtered.Assignees) == 0 {
		contract.LogWarn("Nothing to show", fmt.Errorf("no workload for assignee %q in quarter %q", cfg.Assignee, cfg.Quarter))
	}
	return outwriter.PrintWorkload(filtered, stats, cfg, time.Since(start))
}

// ExecuteReleases runs the pipeline and prints only the release index.
func ExecuteReleases(ctx context.Context, cfg *contract.Config, decoder contract.WorkbookDecoder) error {
	start := time.Now()
	resp, _, err := GetWorkloadResults(ctx, cfg, decoder)
	if err != nil {
		return err
	}
	return outwriter.PrintReleases(resp.Releases, cfg, time.Since(start))
}

// ExecuteExport runs the pipeline and writes the result as a new run into the store.
func ExecuteExport(ctx context.Context, cfg *contract.Config, decoder contract.WorkbookDecoder, store contract.ExportStore) error {
	start := time.Now()
	resp, stats, err := GetWorkloadResults(ctx, cfg, decoder)
	if err != nil {
		return err
	}
	runID, err := ExportResponse(store, strings.Join(cfg.Files, ","), resp, stats, start)
	if err != nil {
		return err
	}
	outwriter.LogExport(runID, resp, cfg, time.Since(start))
	return nil
}

// ExportResponse stores one response as a run and returns the run id.
func ExportResponse(store contract.ExportStore, source string, resp *schema.WorkloadResponse, stats schema.ParseStats, exportTime time.Time) (int64, error) {
	runID, err := store.BeginRun(source, exportTime, stats, len(resp.Assignees))
	if err != nil {
		return 0, err
	}
	if err := store.RecordDays(runID, resp.Flatten()); err != nil {
		return runID, err
	}
	if err := store.RecordReleases(runID, resp.Releases); err != nil {
		return runID, err
	}
	if err := store.RecordTasks(runID, resp.TaskRecords()); err != nil {
		return runID, err
	}
	log := contract.Logger()
	log.Debug().Int64("run", runID).Str("source", source).Msg("Exported workload")
	return runID, nil
}

// ExecuteExportStatus prints the status of the export store.
func ExecuteExportStatus(_ context.Context, cfg *contract.Config, store contract.ExportStore) error {
	status, err := store.GetStatus()
	if err != nil {
		return err
	}
	return outwriter.PrintExportStatus(status, cfg)
}

// ExecuteExportRuns prints every recorded export run.
func ExecuteExportRuns(_ context.Context, cfg *contract.Config, store contract.ExportStore) error {
	runs, err := store.GetRuns()
	if err != nil {
		return err
	}
	return outwriter.PrintExportRuns(runs, cfg)
}
