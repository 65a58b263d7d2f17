package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/parquet"
	"github.com/huangsam/workload/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Fixed column budget of the workload table without the assignee column.
const workloadFixedWidth = 70

// PrintWorkload outputs a workload response, dispatching based on the output format configured.
func PrintWorkload(resp *schema.WorkloadResponse, stats schema.ParseStats, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, resp)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteWorkloadCSV(w, resp, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteDayLoadsParquet(parquet.ConvertDayRows(resp.Flatten()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteWorkloadTable(w, resp, stats, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// WriteWorkloadTable writes one summary row per assignee and quarter.
// The label reflects the busiest day of the quarter.
func WriteWorkloadTable(w io.Writer, resp *schema.WorkloadResponse, stats schema.ParseStats, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Assignee", "Quarter", "Days", "Tasks", "Load", "QA", "SP", "Peak", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableTextWidth(cfg, workloadFixedWidth)
	summaries := resp.Summarize()
	var data [][]string
	for _, s := range summaries {
		label := contract.GetPlainLabel(s.PeakLoad)
		if cfg.UseColors {
			label = contract.GetColorLabel(s.PeakLoad)
		}
		data = append(data, []string{
			contract.TruncateText(s.Assignee, nameWidth),
			s.Quarter,
			fmt.Sprintf(intFmt, s.Days),
			fmt.Sprintf(intFmt, s.Tasks),
			fmtFloat(s.Load),
			fmtFloat(s.QALoad),
			fmtFloat(s.SPLoad),
			fmtFloat(s.PeakLoad),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	total := 0.0
	for _, s := range summaries {
		total += s.Load
	}
	if _, err := fmt.Fprintf(w, "Showing %d assignees over %d quarters (total load: %s person-days, releases: %d)\n",
		len(resp.Assignees), len(summaries), fmtFloat(total), len(resp.Releases)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Parsed %d issues from %d rows (%d skipped) of sheet %q in %v\n",
		stats.Issues, stats.Rows, stats.SkippedRows, stats.Sheet, duration); err != nil {
		return err
	}
	return nil
}

// WriteWorkloadCSV writes every day entry of the response as one CSV row.
func WriteWorkloadCSV(w io.Writer, resp *schema.WorkloadResponse, fmtFloat func(float64) string) error {
	header := []string{"assignee", "quarter", "date", "load", "label", "qa_load", "sp_load", "tasks"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range resp.Flatten() {
			rec := []string{
				row.Assignee,
				row.Quarter,
				row.Date,
				fmtFloat(row.Load),
				contract.GetPlainLabel(row.Load),
				fmtFloat(row.QALoad),
				fmtFloat(row.SPLoad),
				strings.Join(row.Tasks, ";"),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
