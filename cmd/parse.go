package cmd

import (
	"github.com/huangsam/workload/core"
	"github.com/huangsam/workload/internal/contract"
	"github.com/spf13/cobra"
)

// parseCmd prints the daily workload of every assignee.
var parseCmd = &cobra.Command{
	Use:   "parse <spreadsheet> [spreadsheet...]",
	Short: "Show per-assignee daily workload by quarter.",
	Long: `Read the issues sheet of one or more .xlsx or .csv exports and spread
every estimate evenly over the working days of its period. A .json file is
read as a tracker issue export; its custom field names come from the
"tracker" section of .workload.yaml.

The default table shows one line per assignee and quarter with the total,
QA and SP load in person-days, plus the busiest day. Use --output json to get
the full day-by-day response with task metadata.

Examples:
  # Summarize a tracker export
  workload parse issues.xlsx

  # Tracker REST export, due date derived from the estimate when missing
  workload parse issues.json

  # Only one person in one quarter
  workload parse issues.xlsx --assignee ivan.petrov --quarter 2026Q1

  # Full response for a dashboard
  workload parse issues.xlsx --output json --output-file workload.json

  # Day rows for BI tools
  workload parse a.xlsx b.csv --output parquet --output-file workload.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteParse(rootCtx, cfg, decoder); err != nil {
			contract.LogFatal("Cannot parse workload", err)
		}
	},
}
