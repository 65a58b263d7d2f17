package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = schema.LoadDecimals
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

var quarterFilterPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

// Config holds the runtime configuration for a workload run.
// This struct is the "final, validated" config.
type Config struct {
	Files      []string
	Output     schema.OutputMode
	OutputFile string
	Assignee   string // Presentation filter, empty keeps all
	Quarter    string // Presentation filter as "YYYYQn", empty keeps all
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Workers    int
	Now        time.Time // Reference "today" for rows without any period
	Verbose    bool
	UseColors  bool

	ExportBackend   schema.DatabaseBackend
	ExportDBConnect string // Please use env var as this is plaintext
	TargetVersion   int

	TrackerFields schema.TrackerFields // Custom field names read from .json exports
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	FileArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Assignee        string `mapstructure:"assignee"`
	Quarter         string `mapstructure:"quarter"`
	Precision       int    `mapstructure:"precision"`
	Width           int    `mapstructure:"width"`
	Workers         int    `mapstructure:"workers"`
	Today           string `mapstructure:"today"`
	Verbose         bool   `mapstructure:"verbose"`
	Color           string `mapstructure:"color"`
	ExportBackend   string `mapstructure:"export-backend"`
	ExportDBConnect string `mapstructure:"export-db-connect"`

	// --- Fields from migrateCmd.Flags() ---
	TargetVersion int `mapstructure:"target-version"`

	// --- Config file only ---
	Tracker schema.TrackerFields `mapstructure:"tracker"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Files = slices.Clone(c.Files)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. The now argument is used when no
// --today override is given.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processToday(cfg, input, now); err != nil {
		return err
	}
	if err := validateExportBackend(cfg, input); err != nil {
		return err
	}
	return resolveFiles(cfg, input)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Assignee = strings.TrimSpace(input.Assignee)
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.TargetVersion = input.TargetVersion
	cfg.TrackerFields = trimTrackerFields(input.Tracker)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Quarter = strings.ToUpper(strings.TrimSpace(input.Quarter))
	if cfg.Quarter != "" && !quarterFilterPattern.MatchString(cfg.Quarter) {
		return fmt.Errorf("invalid quarter '%s'. expected format like 2026Q1", input.Quarter)
	}
	return nil
}

// trimTrackerFields trims every field name. Blank names stay blank and disable the field.
func trimTrackerFields(f schema.TrackerFields) schema.TrackerFields {
	for _, name := range []*string{
		&f.StartDate, &f.EndDate, &f.Estimate, &f.QA, &f.SP,
		&f.Release, &f.Type, &f.Status, &f.Assignee,
	} {
		*name = strings.TrimSpace(*name)
	}
	return f
}

// processToday fixes the reference date used by the row period fallback.
func processToday(cfg *Config, input *ConfigRawInput, now time.Time) error {
	today := strings.TrimSpace(input.Today)
	if today == "" {
		cfg.Now = now
		return nil
	}
	t, err := time.Parse(time.DateOnly, today)
	if err != nil {
		return fmt.Errorf("invalid --today value '%s'. expected YYYY-MM-DD: %w", input.Today, err)
	}
	cfg.Now = t
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("export-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("export-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateExportBackend validates the export sink configuration.
func validateExportBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.ExportBackend = schema.DatabaseBackend(strings.ToLower(input.ExportBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ExportBackend]; !ok {
		return fmt.Errorf("invalid export backend '%s'. must be sqlite, mysql, postgresql, none", input.ExportBackend)
	}
	cfg.ExportDBConnect = input.ExportDBConnect
	return ValidateDatabaseConnectionString(cfg.ExportBackend, cfg.ExportDBConnect)
}

// resolveFiles checks that every positional file exists and has a supported extension.
func resolveFiles(cfg *Config, input *ConfigRawInput) error {
	cfg.Files = make([]string, 0, len(input.FileArgs))
	for _, arg := range input.FileArgs {
		ext := strings.ToLower(filepath.Ext(arg))
		if _, ok := schema.SupportedExtensions[ext]; !ok {
			return fmt.Errorf("unsupported spreadsheet '%s'. must be .xlsx, .csv or .json", arg)
		}
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("cannot read spreadsheet: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("spreadsheet '%s' is a directory", arg)
		}
		cfg.Files = append(cfg.Files, arg)
	}
	return nil
}

// RevalidateFilters applies a per-request spreadsheet path and presentation filters
// to an already validated config. It is used by callers that bypass viper.
func RevalidateFilters(cfg *Config, path, assignee, quarter string) error {
	if err := resolveFiles(cfg, &ConfigRawInput{FileArgs: []string{path}}); err != nil {
		return err
	}
	cfg.Assignee = strings.TrimSpace(assignee)
	cfg.Quarter = strings.ToUpper(strings.TrimSpace(quarter))
	if cfg.Quarter != "" && !quarterFilterPattern.MatchString(cfg.Quarter) {
		return fmt.Errorf("invalid quarter '%s'. expected format like 2026Q1", quarter)
	}
	return nil
}
