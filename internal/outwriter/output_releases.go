package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/parquet"
	"github.com/huangsam/workload/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintReleases outputs the release index in the configured format.
func PrintReleases(releases []schema.Release, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, releases)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReleasesCSV(w, releases)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteReleasesParquet(parquet.ConvertReleases(releases), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReleasesTable(w, releases, cfg, duration)
		}, "Wrote table")
	}
}

// WriteReleasesTable renders the release index as a table.
func WriteReleasesTable(w io.Writer, releases []schema.Release, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Release", "Date"})

	nameWidth := getMaxTableTextWidth(cfg, 15)
	var data [][]string
	for _, r := range releases {
		data = append(data, []string{contract.TruncateText(r.Name, nameWidth), r.Date})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d releases in %v\n", len(releases), duration)
	return err
}

// WriteReleasesCSV writes the release index as CSV.
func WriteReleasesCSV(w io.Writer, releases []schema.Release) error {
	return writeCSVWithHeader(w, []string{"release", "date"}, func(cw *csv.Writer) error {
		for _, r := range releases {
			if err := cw.Write([]string{r.Name, r.Date}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
