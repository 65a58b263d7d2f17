package cmd

import (
	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/store"
	"github.com/huangsam/workload/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd runs database migrations for the export store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run export database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the export database.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  workload migrate

  # Rollback to initial state
  workload migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: exportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.ExportDBConnect
		if cfg.ExportBackend == schema.SQLiteBackend && connStr == "" {
			connStr = contract.GetExportDBFilePath()
		}
		if err := store.MigrateExport(cfg.ExportBackend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
