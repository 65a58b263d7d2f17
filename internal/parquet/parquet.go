// Package parquet provides data structures and functions for exporting workload
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
	"github.com/parquet-go/parquet-go"
)

// DayLoad is one (assignee, quarter, day) entry of a workload response.
type DayLoad struct {
	// Assignee is the firstname.lastname handle or "unassigned"
	Assignee string `parquet:"assignee,snappy"`

	// Quarter is the calendar quarter key, e.g. "2026Q1"
	Quarter string `parquet:"quarter,snappy"`

	// Date is the ISO calendar date of the day
	Date string `parquet:"date,snappy"`

	// Load is the person-day load of the day
	Load float64 `parquet:"load,snappy"`

	// QALoad is the QA share of the load (nullable)
	QALoad *float64 `parquet:"qa_load,optional,snappy"`

	// SPLoad is the SP share of the load (nullable)
	SPLoad *float64 `parquet:"sp_load,optional,snappy"`

	// Tasks is the comma-separated list of issue ids active that day
	Tasks string `parquet:"tasks,snappy"`
}

// ReleaseDate is one entry of the release index.
type ReleaseDate struct {
	Name string `parquet:"name,snappy"`
	Date string `parquet:"date,snappy"`
}

// ExportRun mirrors a row of the workload_export_runs table.
type ExportRun struct {
	RunID       int64     `parquet:"run_id,snappy"`
	SourceName  string    `parquet:"source_name,snappy"`
	ExportTime  time.Time `parquet:"export_time,snappy"`
	Issues      int32     `parquet:"issues,snappy"`
	SkippedRows int32     `parquet:"skipped_rows,snappy"`
	Assignees   int32     `parquet:"assignees,snappy"`
}

// writeParquet writes rows to outputPath with a schema derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteDayLoadsParquet writes day entries to a Parquet file.
func WriteDayLoadsParquet(data []DayLoad, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReleasesParquet writes the release index to a Parquet file.
func WriteReleasesParquet(data []ReleaseDate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteExportRunsParquet writes export run records to a Parquet file.
func WriteExportRunsParquet(data []ExportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertDayRows converts flattened day rows for Parquet export.
// Zero QA and SP loads are stored as null, matching the JSON response.
func ConvertDayRows(rows []schema.DayRow) []DayLoad {
	result := make([]DayLoad, len(rows))
	for i, row := range rows {
		result[i] = DayLoad{
			Assignee: row.Assignee,
			Quarter:  row.Quarter,
			Date:     row.Date,
			Load:     row.Load,
			QALoad:   positive(row.QALoad),
			SPLoad:   positive(row.SPLoad),
			Tasks:    strings.Join(row.Tasks, ","),
		}
	}
	return result
}

// ConvertReleases converts the release index for Parquet export.
func ConvertReleases(releases []schema.Release) []ReleaseDate {
	result := make([]ReleaseDate, len(releases))
	for i, r := range releases {
		result[i] = ReleaseDate{Name: r.Name, Date: r.Date}
	}
	return result
}

// ConvertExportRunRecords converts schema.ExportRunRecord to ExportRun for Parquet export.
func ConvertExportRunRecords(records []schema.ExportRunRecord) []ExportRun {
	result := make([]ExportRun, len(records))
	for i, record := range records {
		result[i] = ExportRun{
			RunID:       record.RunID,
			SourceName:  record.SourceName,
			ExportTime:  record.ExportTime,
			Issues:      record.Issues,
			SkippedRows: record.SkippedRows,
			Assignees:   record.Assignees,
		}
	}
	return result
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
