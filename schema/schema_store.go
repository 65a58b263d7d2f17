package schema

import (
	"slices"
	"time"
)

// ExportRunRecord represents a row from the workload_export_runs table.
type ExportRunRecord struct {
	RunID       int64
	SourceName  string
	ExportTime  time.Time
	Issues      int32
	SkippedRows int32
	Assignees   int32
}

// TaskRecord represents a row from the workload_tasks table.
type TaskRecord struct {
	RunID        int64
	IssueID      string
	Title        *string
	Type         *string
	EstimateDays float64
}

// TaskRecords lists the task metadata of the response ordered by issue id.
// RunID is left for the store to fill in.
func (r *WorkloadResponse) TaskRecords() []TaskRecord {
	ids := make([]string, 0, len(r.TaskEstimates))
	for id := range r.TaskEstimates {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	records := make([]TaskRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, TaskRecord{
			IssueID:      id,
			Title:        r.TaskTitles[id],
			Type:         r.TaskTypes[id],
			EstimateDays: r.TaskEstimates[id],
		})
	}
	return records
}
