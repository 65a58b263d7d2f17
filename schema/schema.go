// Package schema has models, constants and shared errors for all parts of workload.
package schema

import "time"

// RawRow is one spreadsheet row of untyped cell values.
// Cells are string, float64, bool, time.Time or nil.
type RawRow = []any

// Sheet is a single decoded worksheet. Rows[0] is the header row.
type Sheet struct {
	Name string
	Rows []RawRow
}

// Workbook is the decoded spreadsheet handed to the parsing core.
// Sheets keep their workbook order.
type Workbook struct {
	Sheets []Sheet
}

// DateRange is an inclusive span of civil dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NormalizedIssue holds one issue's resolved attributes.
// All dates are civil dates stored as midnight UTC.
type NormalizedIssue struct {
	IssueID         string     // Never empty
	Title           *string    // First non-empty title cell, nil when absent
	Type            *string    // Issue type, nil when absent
	Assignee        string     // firstname.lastname or "unassigned"
	EstimateSeconds float64    // max(own estimate, total estimate, 0)
	PeriodStart     time.Time  // Always <= PeriodEnd
	PeriodEnd       time.Time  // Inclusive
	Status          string     // Defaults to "TODO"
	CreatedAt       *time.Time // Created timestamp if parseable
	UpdatedAt       *time.Time // Updated timestamp if parseable
	Release         *string    // Release tag if present
	ExtraReleases   []string   // Further tags of a multi-valued release field
	QASeconds       *float64   // QA sub-estimate
	SPSeconds       *float64   // SP sub-estimate
}

// DayBucket is the aggregated load for one assignee on one calendar date.
type DayBucket struct {
	Load  float64
	QA    float64
	SP    float64
	Tasks []string // Insertion ordered, no duplicates
}

// ReleaseNames returns every release tag of the issue, the primary one first.
func (i NormalizedIssue) ReleaseNames() []string {
	if i.Release == nil {
		return i.ExtraReleases
	}
	return append([]string{*i.Release}, i.ExtraReleases...)
}

// AddTask appends the issue id unless it is already present.
func (b *DayBucket) AddTask(issueID string) {
	for _, t := range b.Tasks {
		if t == issueID {
			return
		}
	}
	b.Tasks = append(b.Tasks, issueID)
}

// ParseStats summarizes a single pipeline pass for logging.
type ParseStats struct {
	Sheet       string `json:"sheet"`
	Rows        int    `json:"rows"`
	Issues      int    `json:"issues"`
	SkippedRows int    `json:"skipped_rows"`
}

// FileResult is the outcome of running the pipeline over one spreadsheet file.
type FileResult struct {
	Path     string
	Issues   []NormalizedIssue
	Response *WorkloadResponse
	Stats    ParseStats
	Err      error
}
