// Package store writes workload results to a SQL sink and manages its schema.
package store

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Table names for export tracking.
const (
	exportRunsTable = "workload_export_runs"
	daysTable       = "workload_days"
	releasesTable   = "workload_releases"
	tasksTable      = "workload_tasks"
)

var exportTables = []string{exportRunsTable, daysTable, releasesTable, tasksTable}

// ExportStoreImpl implements the ExportStore interface.
type ExportStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ExportStore = &ExportStoreImpl{} // Compile-time check

// NewExportStore opens the sink for the backend and ensures its tables exist.
// The none backend returns a store that accepts and discards everything.
func NewExportStore(backend schema.DatabaseBackend, connStr string) (*ExportStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &ExportStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createExportTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create export tables: %w", err)
	}

	return &ExportStoreImpl{db: db, backend: backend}, nil
}

// openDB opens a connection pool for the backend without touching the schema.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetExportDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createExportTables applies the statements of the initial up migration.
// They are idempotent, so a later migrate run over the same database is a no-op.
func createExportTables(db *sql.DB, backend schema.DatabaseBackend) error {
	data, err := fs.ReadFile(migrationsFS, "migrations/"+string(backend)+"/000001_init.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema for %s: %w", backend, err)
	}
	for stmt := range strings.SplitSeq(string(data), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// placeholders returns n bind parameters in the syntax of the backend.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// disabled reports whether writes should be skipped.
func (s *ExportStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun creates a new export run and returns its unique ID.
func (s *ExportStoreImpl) BeginRun(sourceName string, exportTime time.Time, stats schema.ParseStats, assignees int) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	columns := "source_name, export_time, issues, skipped_rows, assignees"
	args := []any{sourceName, formatTime(exportTime, s.backend), stats.Issues, stats.SkippedRows, assignees}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, exportRunsTable, columns, placeholders(s.backend, len(args)))
		if err := s.db.QueryRow(query, args...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert export run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, exportRunsTable, columns, placeholders(s.backend, len(args)))
		result, err := s.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert export run: %w", err)
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read export run id: %w", err)
		}
	}
	return runID, nil
}

// insertAll runs one prepared insert per row inside a single transaction.
func (s *ExportStoreImpl) insertAll(table, columns string, rows [][]any) error {
	if s.disabled() || len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, table, columns, placeholders(s.backend, len(rows[0])))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, args := range rows {
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// RecordDays stores the flattened day entries of a run.
func (s *ExportStoreImpl) RecordDays(runID int64, rows []schema.DayRow) error {
	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{runID, r.Assignee, r.Quarter, r.Date, r.Load, r.QALoad, r.SPLoad, strings.Join(r.Tasks, ",")}
	}
	return s.insertAll(daysTable, "run_id, assignee, quarter, day, day_load, qa_load, sp_load, tasks", args)
}

// RecordReleases stores the release dates of a run.
func (s *ExportStoreImpl) RecordReleases(runID int64, releases []schema.Release) error {
	args := make([][]any, len(releases))
	for i, r := range releases {
		args[i] = []any{runID, r.Name, r.Date}
	}
	return s.insertAll(releasesTable, "run_id, name, release_date", args)
}

// RecordTasks stores per-issue metadata of a run.
func (s *ExportStoreImpl) RecordTasks(runID int64, tasks []schema.TaskRecord) error {
	args := make([][]any, len(tasks))
	for i, t := range tasks {
		args[i] = []any{runID, t.IssueID, t.Title, t.Type, t.EstimateDays}
	}
	return s.insertAll(tasksTable, "run_id, issue_id, title, issue_type, estimate_days", args)
}

// GetRuns retrieves all export runs from the store, oldest first.
func (s *ExportStoreImpl) GetRuns() ([]schema.ExportRunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, source_name, export_time, issues, skipped_rows, assignees FROM %s ORDER BY run_id", exportRunsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ExportRunRecord
	for rows.Next() {
		var record schema.ExportRunRecord
		var exportTime any
		if err := rows.Scan(&record.RunID, &record.SourceName, &exportTime, &record.Issues, &record.SkippedRows, &record.Assignees); err != nil {
			return nil, fmt.Errorf("failed to scan export run: %w", err)
		}
		if record.ExportTime, err = parseTime(exportTime); err != nil {
			return nil, fmt.Errorf("failed to parse export_time: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export runs: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the export store.
func (s *ExportStoreImpl) GetStatus() (schema.ExportStatus, error) {
	status := schema.ExportStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	for _, table := range exportTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[exportRunsTable])
	status.TotalDayRows = int(status.TableSizes[daysTable])

	if status.TotalRuns == 0 {
		return status, nil
	}

	var lastTime, oldestTime any
	lastQuery := fmt.Sprintf("SELECT run_id, export_time FROM %s ORDER BY run_id DESC LIMIT 1", exportRunsTable)
	if err := s.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastTime); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	oldestQuery := fmt.Sprintf("SELECT export_time FROM %s ORDER BY run_id ASC LIMIT 1", exportRunsTable)
	if err := s.db.QueryRow(oldestQuery).Scan(&oldestTime); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	var err error
	if status.LastRunTime, err = parseTime(lastTime); err != nil {
		return status, fmt.Errorf("failed to parse last run time: %w", err)
	}
	if status.OldestRunTime, err = parseTime(oldestTime); err != nil {
		return status, fmt.Errorf("failed to parse oldest run time: %w", err)
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *ExportStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// parseTime reads a timestamp column. SQLite stores text, the other backends
// return native times. MySQL without parseTime=true hands back raw bytes.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

func parseTimeText(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999", s)
}
