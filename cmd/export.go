package cmd

import (
	"github.com/huangsam/workload/core"
	"github.com/huangsam/workload/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd records a workload run in the export database.
var exportCmd = &cobra.Command{
	Use:   "export <spreadsheet> [spreadsheet...]",
	Short: "Store the computed workload in a database",
	Long: `Compute the workload and store it as a new export run.

Each run stores:
- Run metadata (source files, time, issue and skipped row counts)
- One row per assignee and day with load, QA and SP load
- The release index and the task metadata

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show export store statistics
  runs   - List recorded export runs

Examples:
  # Store into ~/.workload_export.db
  workload export issues.xlsx

  # Store into PostgreSQL
  WORKLOAD_EXPORT_DB_CONNECT="host=db user=app dbname=workload" \
    workload export issues.xlsx --export-backend postgresql`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s := openExportStore()
		defer closeExportStore(s)
		if err := core.ExecuteExport(rootCtx, cfg, decoder, s); err != nil {
			contract.LogFatal("Cannot export workload", err)
		}
	},
}

// exportStatusCmd shows export store status.
var exportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display export store statistics and connection details",
	Long: `Show the backend, connection state, run count, first and last export
time and the row count of every export table.

Examples:
  workload export status
  workload export status --export-backend mysql`,
	Args:    cobra.NoArgs,
	PreRunE: exportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s := openExportStore()
		defer closeExportStore(s)
		if err := core.ExecuteExportStatus(rootCtx, cfg, s); err != nil {
			contract.LogFatal("Failed to get export status", err)
		}
	},
}

// exportRunsCmd lists export runs.
var exportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded export runs",
	Long: `List every export run with its source, time and counts.

Examples:
  workload export runs
  workload export runs --output parquet --output-file runs.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: exportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s := openExportStore()
		defer closeExportStore(s)
		if err := core.ExecuteExportRuns(rootCtx, cfg, s); err != nil {
			contract.LogFatal("Failed to list export runs", err)
		}
	},
}
