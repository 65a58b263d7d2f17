package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/internal/sheet"
	"github.com/huangsam/workload/internal/store"
	"github.com/huangsam/workload/internal/tracker"
	"github.com/huangsam/workload/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// sourceDecoder reads spreadsheets into workbooks and tracker exports into issues.
type sourceDecoder struct {
	*sheet.Decoder
	issues *tracker.Decoder
}

var _ contract.IssueDecoder = sourceDecoder{}

func newSourceDecoder(fields schema.TrackerFields) contract.WorkbookDecoder {
	return sourceDecoder{Decoder: sheet.NewDecoder(), issues: tracker.NewDecoder(fields)}
}

// DecodeIssues reads a tracker export with the configured field names.
func (d sourceDecoder) DecodeIssues(path string, now time.Time) ([]schema.NormalizedIssue, schema.ParseStats, error) {
	return d.issues.DecodeIssues(path, now)
}

// decoder reads every input file. It is rebuilt once the tracker field names are known.
var decoder = newSourceDecoder(schema.DefaultTrackerFields())

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "workload",
	Short:              "Turn an issues spreadsheet into per-assignee daily workload.",
	Long:               `Workload reads the issues sheet of a tracker export and spreads every estimate over its working days.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigPaths()

	// Set environment variable prefix
	viper.SetEnvPrefix("WORKLOAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("export-backend", schema.SQLiteBackend)
	viper.SetDefault("export-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("target-version", -1)
	setTrackerDefaults(schema.DefaultTrackerFields())
}

// setTrackerDefaults registers every tracker field name so config files and env can override it.
func setTrackerDefaults(f schema.TrackerFields) {
	viper.SetDefault("tracker.start-date-field", f.StartDate)
	viper.SetDefault("tracker.end-date-field", f.EndDate)
	viper.SetDefault("tracker.estimate-field", f.Estimate)
	viper.SetDefault("tracker.qa-field", f.QA)
	viper.SetDefault("tracker.sp-field", f.SP)
	viper.SetDefault("tracker.release-field", f.Release)
	viper.SetDefault("tracker.type-field", f.Type)
	viper.SetDefault("tracker.status-field", f.Status)
	viper.SetDefault("tracker.assignee-field", f.Assignee)
}

// setConfigPaths points Viper at an explicit config file or the default locations.
func setConfigPaths() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".workload") // Name of config file (without extension)
	viper.SetConfigType("yaml")      // We'll use YAML format
	viper.AddConfigPath(".")         // Look in the current directory
	viper.AddConfigPath("$HOME")     // Look in the home directory
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigPaths()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.FileArgs = args

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input, time.Now()); err != nil {
		return err
	}

	decoder = newSourceDecoder(cfg.TrackerFields)
	contract.SetupLogger(os.Stderr, cfg.Verbose)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// exportSetup loads minimal configuration needed for export store operations.
// It skips spreadsheet validation so status and runs work without file arguments.
func exportSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("export-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid export backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("export-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", output)
	}
	outputFile := viper.GetString("output-file")
	if output == schema.ParquetOut && outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}

	cfg.ExportBackend = backend
	cfg.ExportDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = outputFile
	cfg.Width = viper.GetInt("width")
	cfg.Precision = viper.GetInt("precision")
	cfg.Verbose = viper.GetBool("verbose")
	cfg.UseColors = colors
	cfg.TargetVersion = viper.GetInt("target-version")

	contract.SetupLogger(os.Stderr, cfg.Verbose)
	color.NoColor = !cfg.UseColors
	return nil
}

// exportSetupWrapper wraps exportSetup to provide PreRunE for export store commands.
func exportSetupWrapper(_ *cobra.Command, _ []string) error {
	return exportSetup()
}

// openExportStore opens the configured export sink or exits.
func openExportStore() *store.ExportStoreImpl {
	s, err := store.NewExportStore(cfg.ExportBackend, cfg.ExportDBConnect)
	if err != nil {
		contract.LogFatal("Cannot open export store", err)
	}
	return s
}

// closeExportStore closes the sink; a failed close only warns since the run already finished.
func closeExportStore(s *store.ExportStoreImpl) {
	if err := s.Close(); err != nil {
		contract.LogWarn("Cannot close export store", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
