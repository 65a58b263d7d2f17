package core

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
)

// BuildFiles decodes and processes every path with a pool of workers.
// Results keep the order of paths. Each file gets its own pipeline state.
// Cancellation is checked before each file starts.
func BuildFiles(ctx context.Context, decoder contract.WorkbookDecoder, paths []string, workers int, now time.Time) []schema.FileResult {
	results := make([]schema.FileResult, len(paths))
	if len(paths) == 0 {
		return results
	}
	workers = max(1, min(workers, len(paths)))

	idxCh := make(chan int, len(paths))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for idx := range idxCh {
				// Each worker writes to a unique index, which is safe.
				results[idx] = buildFile(ctx, decoder, paths[idx], now)
			}
		})
	}

	for i := range paths {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()
	return results
}

func buildFile(ctx context.Context, decoder contract.WorkbookDecoder, path string, now time.Time) schema.FileResult {
	if err := ctx.Err(); err != nil {
		return schema.FileResult{Path: path, Err: err}
	}
	if issues, ok := decoder.(contract.IssueDecoder); ok && strings.EqualFold(filepath.Ext(path), schema.JSONExt) {
		return buildTrackerFile(issues, path, now)
	}
	wb, err := decoder.DecodeFile(path)
	if err != nil {
		return schema.FileResult{Path: path, Err: err}
	}
	res := processWorkbook(wb, now)
	res.Path = path
	return res
}

// buildTrackerFile skips sheet selection and row normalization, which the export does not need.
func buildTrackerFile(decoder contract.IssueDecoder, path string, now time.Time) schema.FileResult {
	issues, stats, err := decoder.DecodeIssues(path, now)
	if err != nil {
		return schema.FileResult{Path: path, Err: err}
	}
	res := processIssues(issues, stats)
	res.Path = path
	return res
}
