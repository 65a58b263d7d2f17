package cmd

import (
	"github.com/huangsam/workload/core"
	"github.com/huangsam/workload/internal/contract"
	"github.com/spf13/cobra"
)

// releasesCmd prints the release index found in the spreadsheets.
var releasesCmd = &cobra.Command{
	Use:   "releases <spreadsheet> [spreadsheet...]",
	Short: "List releases and their dates.",
	Long: `List every release named in the issues sheet with its representative date.

The date of a release is taken from the updated timestamp of the last row
that names it, falling back to the row's period end.

Examples:
  workload releases issues.xlsx
  workload releases issues.xlsx --output csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReleases(rootCtx, cfg, decoder); err != nil {
			contract.LogFatal("Cannot list releases", err)
		}
	},
}
