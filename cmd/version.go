package cmd

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/workload/schema"
	"github.com/spf13/cobra"
)

// versionCmd reports build metadata and what this binary can read and write.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build details and supported formats.",
	Long: `Print the release, commit and build date stamped at link time, then the
input extensions, output formats and export backends compiled into this
binary, and the day and week lengths used to turn estimates into load.

Attach the output when reporting a workbook that parses differently than expected.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), versionReport())
	},
}

// versionReport renders one header line and one "name: values" line per capability.
func versionReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "workload %s (commit %s, built %s, %s %s/%s)\n",
		version, shortCommit(commit), date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "inputs:   %s\n", joinSorted(schema.SupportedExtensions))
	fmt.Fprintf(&b, "outputs:  %s\n", joinSorted(schema.ValidOutputModes))
	fmt.Fprintf(&b, "backends: %s\n", joinSorted(schema.ValidDatabaseBackends))
	fmt.Fprintf(&b, "units:    1 day = %dh, 1 week = %d days\n",
		schema.SecondsPerWorkday/schema.SecondsPerHour, schema.WorkdaysPerWeek)
	return b.String()
}

// shortCommit trims a full hash to the usual seven characters.
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

func joinSorted[K ~string](set map[K]struct{}) string {
	names := make([]string, 0, len(set))
	for _, k := range slices.Sorted(maps.Keys(set)) {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
