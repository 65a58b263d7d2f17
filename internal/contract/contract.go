// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/workload/schema"
)

// WorkbookDecoder turns a spreadsheet file into named sheets of raw cells.
// This allows the pipeline to be tested without real files on disk.
type WorkbookDecoder interface {
	// DecodeFile reads and decodes the spreadsheet at path.
	DecodeFile(path string) (*schema.Workbook, error)

	// DecodeBytes decodes an in-memory spreadsheet. The name selects the format by extension.
	DecodeBytes(name string, data []byte) (*schema.Workbook, error)
}

// IssueDecoder reads a tracker issue export straight into normalized issues.
// A WorkbookDecoder that also implements it handles .json inputs this way.
type IssueDecoder interface {
	DecodeIssues(path string, now time.Time) ([]schema.NormalizedIssue, schema.ParseStats, error)
}

// ExportStore defines the interface for writing workload results to a SQL sink.
type ExportStore interface {
	// BeginRun creates a new export run and returns its unique ID
	BeginRun(sourceName string, exportTime time.Time, stats schema.ParseStats, assignees int) (int64, error)

	// RecordDays stores the flattened day entries of a run
	RecordDays(runID int64, rows []schema.DayRow) error

	// RecordReleases stores the release dates of a run
	RecordReleases(runID int64, releases []schema.Release) error

	// RecordTasks stores per-issue metadata of a run
	RecordTasks(runID int64, tasks []schema.TaskRecord) error

	// GetRuns returns every recorded run, oldest first
	GetRuns() ([]schema.ExportRunRecord, error)

	// GetStatus returns status information about the export store
	GetStatus() (schema.ExportStatus, error)

	// Close closes the underlying connection
	Close() error
}
