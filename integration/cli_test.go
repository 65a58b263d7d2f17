//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonDay struct {
	Date  string   `json:"date"`
	Load  float64  `json:"load"`
	Tasks []string `json:"tasks"`
}

type jsonResponse struct {
	Assignees []struct {
		Name    string `json:"name"`
		Periods []struct {
			Name string    `json:"name"`
			Days []jsonDay `json:"days"`
		} `json:"periods"`
	} `json:"assignees"`
	Releases []struct {
		Name string `json:"name"`
		Date string `json:"date"`
	} `json:"releases"`
	TaskEstimates map[string]float64 `json:"taskEstimates"`
}

// TestParseJSONVerification checks that each assignee's daily loads add up to their estimates.
func TestParseJSONVerification(t *testing.T) {
	path := writeIssues(t)
	out, err := runWorkload(t, nil, "parse", path, "--output", "json", "--export-backend", "none")
	require.NoError(t, err)

	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	totals := map[string]float64{}
	for _, a := range resp.Assignees {
		for _, p := range a.Periods {
			for _, d := range p.Days {
				totals[a.Name] += d.Load
			}
		}
	}
	// 5d + 4h for ivan, 1w for nobody; per-day rounding drifts slightly
	assert.InDelta(t, 5.5, totals["ivan.petrov"], 1e-2)
	assert.InDelta(t, 5.0, totals["unassigned"], 1e-2)

	assert.InDelta(t, 5.0, resp.TaskEstimates["ABC-1"], 1e-9)
	assert.InDelta(t, 0.5, resp.TaskEstimates["ABC-2"], 1e-9)
	require.Len(t, resp.Releases, 2)
	assert.Equal(t, "v1.10", resp.Releases[0].Name)
	assert.Equal(t, "2026-03-05", resp.Releases[0].Date)
}

func TestParseTextFilters(t *testing.T) {
	path := writeIssues(t)
	out, err := runWorkload(t, nil, "parse", path, "--assignee", "ivan.petrov", "--quarter", "2026q1", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "ivan.petrov")
	assert.Contains(t, out, "2026Q1")
	assert.NotContains(t, out, "unassigned")
}

func TestReleasesCSV(t *testing.T) {
	path := writeIssues(t)
	out, err := runWorkload(t, nil, "releases", path, "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"release,date", "v1.10,2026-03-05", "v1.11,2026-04-10"}, lines)
}

func TestExportSQLiteRoundTrip(t *testing.T) {
	path := writeIssues(t)
	dbPath := t.TempDir() + "/export.db"
	env := []string{"WORKLOAD_EXPORT_DB_CONNECT=" + dbPath}

	_, err := runWorkload(t, env, "export", path)
	require.NoError(t, err)

	out, err := runWorkload(t, env, "export", "runs", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "issues.csv")
}

func TestInvalidInputs(t *testing.T) {
	path := writeIssues(t)

	_, err := runWorkload(t, nil, "parse", path, "--quarter", "Q5")
	assert.Error(t, err)

	_, err = runWorkload(t, nil, "parse", "missing.xlsx")
	assert.Error(t, err)

	_, err = runWorkload(t, nil, "parse")
	assert.Error(t, err)
}

// TestParseTrackerExport reads a .json export with a field name overridden from the environment.
func TestParseTrackerExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{
		"idReadable": "TR-1",
		"assignee": {"login": "ivan.petrov"},
		"customFields": [
			{"name": "Start date", "value": "2026-03-02"},
			{"name": "Effort", "value": {"minutes": 1440}},
			{"name": "Release", "value": [{"name": "v4.0"}, {"name": "v4.1"}]}
		]
	}]`), 0o644))

	out, err := runWorkload(t, []string{"WORKLOAD_TRACKER_ESTIMATE_FIELD=Effort"}, "parse", path, "--output", "json")
	require.NoError(t, err)

	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Assignees, 1)
	days := resp.Assignees[0].Periods[0].Days
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-04", days[2].Date)
	assert.InDelta(t, 3.0, resp.TaskEstimates["TR-1"], 1e-9)
	require.Len(t, resp.Releases, 2)
	assert.Equal(t, "v4.1", resp.Releases[1].Name)
}
