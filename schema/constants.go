package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for exports.
	DatabaseBackend string

	// Field represents a semantic column role in the issues sheet.
	Field string
)

// Duration constants used to convert estimates into load units.
const (
	SecondsPerHour    = 3600
	SecondsPerWorkday = 28800 // 8-hour workday
	WorkdaysPerWeek   = 5
	SecondsPerWeek    = WorkdaysPerWeek * SecondsPerWorkday
)

// Defaults applied by the row normalizer.
const (
	UnassignedName = "unassigned"
	DefaultStatus  = "TODO"
)

// Sheet names looked up before falling back to the first sheet.
const (
	IssuesSheet      = "issues"
	IssuesSheetTitle = "Issues"
)

// LoadDecimals is the number of decimal places kept in emitted loads.
const LoadDecimals = 4

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All export backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid export backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Input file extensions. JSON files are tracker issue exports, not spreadsheets.
const (
	XLSXExt = ".xlsx"
	CSVExt  = ".csv"
	JSONExt = ".json"
)

// SupportedExtensions lists all readable input extensions.
var SupportedExtensions = map[string]struct{}{
	XLSXExt: {},
	CSVExt:  {},
	JSONExt: {},
}

// MaxDerivedSpanDays caps the span derived from an estimate when an issue has no due date.
const MaxDerivedSpanDays = 366
