package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// sampleResponse returns a small response with one QA share and one release.
func sampleResponse() *schema.WorkloadResponse {
	return &schema.WorkloadResponse{
		Assignees: []schema.Assignee{
			{
				Name: "ivan.petrov",
				Periods: []schema.Period{
					{
						Name: "2026Q1", Start: "2026-01-01", End: "2026-03-31",
						Days: []schema.Day{
							{Date: "2026-01-05", Load: 0.5, Tasks: []string{"ABC-1"}, QALoad: ptr(0.25)},
							{Date: "2026-01-06", Load: 1.25, Tasks: []string{"ABC-1", "ABC-2"}},
						},
					},
				},
			},
			{
				Name: "unassigned",
				Periods: []schema.Period{
					{
						Name: "2026Q2", Start: "2026-04-01", End: "2026-06-30",
						Days: []schema.Day{{Date: "2026-04-01", Load: 0.1, Tasks: []string{"ABC-3"}}},
					},
				},
			},
		},
		Releases:      []schema.Release{{Name: "v1.10", Date: "2026-02-10"}},
		TaskTitles:    map[string]*string{"ABC-1": ptr("Login"), "ABC-2": nil, "ABC-3": nil},
		TaskTypes:     map[string]*string{"ABC-1": ptr("Bug"), "ABC-2": nil, "ABC-3": nil},
		TaskEstimates: map[string]float64{"ABC-1": 2, "ABC-2": 0.5, "ABC-3": 0.1},
	}
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "1.25", fmtFloat(1.2499))
	assert.Equal(t, "%d", intFmt)
}

func TestGetMaxTableTextWidth(t *testing.T) {
	assert.Equal(t, 12, getMaxTableTextWidth(&contract.Config{Width: 40}, 70))
	assert.Equal(t, 30, getMaxTableTextWidth(&contract.Config{Width: 120}, 70))
	assert.Equal(t, 60, getMaxTableTextWidth(&contract.Config{Width: 400}, 70))
}

func TestWriteWorkloadTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Precision: 2, Width: 120}
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	stats := schema.ParseStats{Sheet: "issues", Rows: 4, Issues: 3, SkippedRows: 1}

	err := WriteWorkloadTable(&buf, sampleResponse(), stats, cfg, fmtFloat, intFmt, time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ivan.petrov")
	assert.Contains(t, out, "2026Q1")
	assert.Contains(t, out, "1.75")
	assert.Contains(t, out, contract.OverloadedValue)
	assert.Contains(t, out, contract.LightValue)
	assert.Contains(t, out, "Showing 2 assignees over 2 quarters (total load: 1.85 person-days, releases: 1)")
	assert.Contains(t, out, `Parsed 3 issues from 4 rows (1 skipped) of sheet "issues"`)
}

func TestWriteWorkloadCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(4)
	require.NoError(t, WriteWorkloadCSV(&buf, sampleResponse(), fmtFloat))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "assignee,quarter,date,load,label,qa_load,sp_load,tasks", lines[0])
	assert.Equal(t, "ivan.petrov,2026Q1,2026-01-05,0.5000,Busy,0.2500,0.0000,ABC-1", lines[1])
	assert.Equal(t, "ivan.petrov,2026Q1,2026-01-06,1.2500,Overloaded,0.0000,0.0000,ABC-1;ABC-2", lines[2])
	assert.Equal(t, "unassigned,2026Q2,2026-04-01,0.1000,Light,0.0000,0.0000,ABC-3", lines[3])
}

func TestPrintWorkloadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, Precision: 2}
	require.NoError(t, PrintWorkload(sampleResponse(), schema.ParseStats{}, cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "assignees")
	assert.Contains(t, decoded, "releases")
	assert.Contains(t, decoded, "taskTitles")
	assert.Contains(t, string(data), `"qaLoad": 0.25`)
	assert.NotContains(t, string(data), "spLoad")
}

func TestPrintWorkloadParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	require.NoError(t, PrintWorkload(sampleResponse(), schema.ParseStats{}, cfg, time.Second))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteReleases(t *testing.T) {
	releases := sampleResponse().Releases

	var table bytes.Buffer
	require.NoError(t, WriteReleasesTable(&table, releases, &contract.Config{Width: 100}, time.Second))
	assert.Contains(t, table.String(), "v1.10")
	assert.Contains(t, table.String(), "2026-02-10")
	assert.Contains(t, table.String(), "Showing 1 releases")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteReleasesCSV(&csvBuf, releases))
	assert.Equal(t, "release,date\nv1.10,2026-02-10\n", csvBuf.String())
}

func TestPrintReleasesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "releases.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, PrintReleases(sampleResponse().Releases, cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []schema.Release
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleResponse().Releases, got)
}

func TestWriteExportStatus(t *testing.T) {
	var buf bytes.Buffer
	status := schema.ExportStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     2,
		LastRunID:     2,
		LastRunTime:   time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		OldestRunTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalDayRows:  42,
		TableSizes:    map[string]int64{"workload_export_runs": 2, "workload_days": 42},
	}
	require.NoError(t, WriteExportStatus(&buf, status))

	out := buf.String()
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Last run: #2 at 2026-03-04T10:00:00Z")
	assert.Less(t, strings.Index(out, "workload_days"), strings.Index(out, "workload_export_runs"))
}

func TestWriteExportRuns(t *testing.T) {
	runs := []schema.ExportRunRecord{
		{RunID: 1, SourceName: "team.xlsx", ExportTime: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), Issues: 3, SkippedRows: 1, Assignees: 2},
	}

	var table bytes.Buffer
	require.NoError(t, WriteExportRunsTable(&table, runs, &contract.Config{Width: 120}, "%d"))
	assert.Contains(t, table.String(), "team.xlsx")
	assert.Contains(t, table.String(), "Showing 1 export runs")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteExportRunsCSV(&csvBuf, runs))
	assert.Equal(t, "run_id,source_name,export_time,issues,skipped_rows,assignees\n1,team.xlsx,2026-03-04T10:00:00Z,3,1,2\n", csvBuf.String())
}
