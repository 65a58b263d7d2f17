package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/parquet"
	"github.com/huangsam/workload/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// LogExport reports a finished export on stderr.
func LogExport(runID int64, resp *schema.WorkloadResponse, cfg *contract.Config, duration time.Duration) {
	_, _ = fmt.Fprintf(os.Stderr, "💾 Exported run %d (%d assignees, %d releases, %d tasks) to %s in %v\n",
		runID, len(resp.Assignees), len(resp.Releases), len(resp.TaskEstimates), cfg.ExportBackend, duration)
}

// PrintExportStatus outputs the status of the export store.
func PrintExportStatus(status schema.ExportStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteExportStatus(w, status)
	}, "Wrote status")
}

// WriteExportStatus writes a human-readable status report.
func WriteExportStatus(w io.Writer, status schema.ExportStatus) error {
	lines := []string{
		fmt.Sprintf("Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
		fmt.Sprintf("Total runs: %d", status.TotalRuns),
		fmt.Sprintf("Total day rows: %d", status.TotalDayRows),
	}
	if status.TotalRuns > 0 {
		lines = append(lines,
			fmt.Sprintf("Last run: #%d at %s", status.LastRunID, status.LastRunTime.Format(time.RFC3339)),
			fmt.Sprintf("Oldest run: %s", status.OldestRunTime.Format(time.RFC3339)),
		)
	}
	tables := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		tables = append(tables, name)
	}
	slices.Sort(tables)
	for _, name := range tables {
		lines = append(lines, fmt.Sprintf("Table %s: %d rows", name, status.TableSizes[name]))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PrintExportRuns outputs recorded export runs in the configured format.
func PrintExportRuns(runs []schema.ExportRunRecord, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteExportRunsCSV(w, runs)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteExportRunsParquet(parquet.ConvertExportRunRecords(runs), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteExportRunsTable(w, runs, cfg, intFmt)
		}, "Wrote table")
	}
}

// WriteExportRunsTable renders export runs as a table, oldest first.
func WriteExportRunsTable(w io.Writer, runs []schema.ExportRunRecord, cfg *contract.Config, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Source", "Exported", "Issues", "Skipped", "Assignees"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	sourceWidth := getMaxTableTextWidth(cfg, 60)
	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			contract.TruncateText(r.SourceName, sourceWidth),
			r.ExportTime.Format(time.RFC3339),
			fmt.Sprintf(intFmt, r.Issues),
			fmt.Sprintf(intFmt, r.SkippedRows),
			fmt.Sprintf(intFmt, r.Assignees),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d export runs\n", len(runs))
	return err
}

// WriteExportRunsCSV writes export runs as CSV.
func WriteExportRunsCSV(w io.Writer, runs []schema.ExportRunRecord) error {
	header := []string{"run_id", "source_name", "export_time", "issues", "skipped_rows", "assignees"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.SourceName,
				r.ExportTime.Format(time.RFC3339),
				strconv.Itoa(int(r.Issues)),
				strconv.Itoa(int(r.SkippedRows)),
				strconv.Itoa(int(r.Assignees)),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
