package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/workload/schema"
)

var fixedNow = time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

var scenarioHeader = schema.RawRow{"Issue ID", "Assignee", "ownestimate", "Period", "Status", "created", "updated", "Release", "QA", "SP"}

func TestNormalizeRowsScenario(t *testing.T) {
	rows := []schema.RawRow{
		scenarioHeader,
		{"UCR-846", "a.pushkin", 7200.0, "2026Q1 January-2", "IN PROGRESS", "2026-01-26", "2026-02-10", "v1.10", 3600.0, 0.0},
	}
	issues, stats := NormalizeRows(rows, fixedNow)
	require.Len(t, issues, 1)
	assert.Equal(t, schema.ParseStats{Rows: 1, Issues: 1}, stats)

	issue := issues[0]
	assert.Equal(t, "UCR-846", issue.IssueID)
	assert.Nil(t, issue.Title)
	assert.Nil(t, issue.Type)
	assert.Equal(t, "a.pushkin", issue.Assignee)
	assert.InDelta(t, 432000.0, issue.EstimateSeconds, 1e-9)
	assert.Equal(t, day(2026, time.January, 1), issue.PeriodStart)
	assert.Equal(t, day(2026, time.February, 28), issue.PeriodEnd)
	assert.Equal(t, "IN PROGRESS", issue.Status)
	require.NotNil(t, issue.CreatedAt)
	assert.Equal(t, day(2026, time.January, 26), *issue.CreatedAt)
	require.NotNil(t, issue.UpdatedAt)
	assert.Equal(t, day(2026, time.February, 10), *issue.UpdatedAt)
	require.NotNil(t, issue.Release)
	assert.Equal(t, "v1.10", *issue.Release)
	require.NotNil(t, issue.QASeconds)
	assert.InDelta(t, 216000.0, *issue.QASeconds, 1e-9)
	require.NotNil(t, issue.SPSeconds)
	assert.Zero(t, *issue.SPSeconds)
}

func TestNormalizeRowsPositionalFallback(t *testing.T) {
	rows := []schema.RawRow{
		{"x", "y"},
		{"UCR-1", "j.doe", 480.0, "2026Q2", "DONE", nil, nil, "v2", "1h"},
	}
	issues, _ := NormalizeRows(rows, fixedNow)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "UCR-1", issue.IssueID)
	assert.Equal(t, "j.doe", issue.Assignee)
	assert.InDelta(t, 28800.0, issue.EstimateSeconds, 1e-9)
	assert.Equal(t, day(2026, time.April, 1), issue.PeriodStart)
	assert.Equal(t, day(2026, time.June, 30), issue.PeriodEnd)
	assert.Equal(t, "DONE", issue.Status)
	require.NotNil(t, issue.Release)
	assert.Equal(t, "v2", *issue.Release)
	require.NotNil(t, issue.QASeconds)
	assert.InDelta(t, 3600.0, *issue.QASeconds, 1e-9)
	assert.Nil(t, issue.SPSeconds)
}

func TestNormalizeRowsSkipsEmptyIDs(t *testing.T) {
	rows := []schema.RawRow{
		scenarioHeader,
		{"", "a.pushkin"},
		{"   ", "a.pushkin"},
		{nil},
		{},
		{"UCR-2", "b.ivanova"},
	}
	issues, stats := NormalizeRows(rows, fixedNow)
	require.Len(t, issues, 1)
	assert.Equal(t, "UCR-2", issues[0].IssueID)
	assert.Equal(t, schema.ParseStats{Rows: 5, Issues: 1, SkippedRows: 4}, stats)
}

func TestNormalizeRowsEmpty(t *testing.T) {
	issues, stats := NormalizeRows(nil, fixedNow)
	assert.Empty(t, issues)
	assert.NotNil(t, issues)
	assert.Zero(t, stats.Rows)

	issues, stats = NormalizeRows([]schema.RawRow{scenarioHeader}, fixedNow)
	assert.Empty(t, issues)
	assert.Zero(t, stats.Rows)
}

func TestNormalizeAssignee(t *testing.T) {
	tests := []struct {
		name     string
		header   schema.RawRow
		row      schema.RawRow
		expected string
	}{
		{
			name:     "resolved column with email",
			header:   schema.RawRow{"Issue", "Owner"},
			row:      schema.RawRow{"UCR-1", "Ivan.Petrov@example.com"},
			expected: "Ivan.Petrov",
		},
		{
			name:     "resolved column without pattern",
			header:   schema.RawRow{"Issue", "Owner", "Notes"},
			row:      schema.RawRow{"UCR-1", "Ivan", "see a.b"},
			expected: schema.UnassignedName,
		},
		{
			name:     "unresolved uses whole row",
			header:   schema.RawRow{"Issue", "Title"},
			row:      schema.RawRow{"UCR-1", "Fix login", nil, nil, "handled by k.smith"},
			expected: "k.smith",
		},
		{
			name:     "unresolved with no pattern",
			header:   schema.RawRow{"Issue", "Title"},
			row:      schema.RawRow{"UCR-2", "Fix login"},
			expected: schema.UnassignedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, ok := NewNormalizer(tt.header, fixedNow).Normalize(tt.row)
			require.True(t, ok)
			assert.Equal(t, tt.expected, issue.Assignee)
		})
	}
}

func TestNormalizePeriodFallbacks(t *testing.T) {
	n := NewNormalizer(scenarioHeader, fixedNow)

	tests := []struct {
		name  string
		row   schema.RawRow
		start time.Time
		end   time.Time
	}{
		{
			name:  "created and updated",
			row:   schema.RawRow{"A-1", nil, nil, "", nil, "2026-01-05", "2026-01-09"},
			start: day(2026, time.January, 5),
			end:   day(2026, time.January, 9),
		},
		{
			name:  "created only",
			row:   schema.RawRow{"A-1", nil, nil, nil, nil, "2026-01-05"},
			start: day(2026, time.January, 5),
			end:   day(2026, time.January, 5),
		},
		{
			name:  "updated only",
			row:   schema.RawRow{"A-1", nil, nil, nil, nil, nil, "2026-01-09"},
			start: day(2026, time.January, 9),
			end:   day(2026, time.January, 9),
		},
		{
			name:  "reversed timestamps are swapped",
			row:   schema.RawRow{"A-1", nil, nil, nil, nil, "2026-01-09", "2026-01-05"},
			start: day(2026, time.January, 5),
			end:   day(2026, time.January, 9),
		},
		{
			name:  "nothing falls back to today",
			row:   schema.RawRow{"A-1", nil, nil, "soon", nil, "never", nil},
			start: day(2026, time.March, 4),
			end:   day(2026, time.March, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, ok := n.Normalize(tt.row)
			require.True(t, ok)
			assert.Equal(t, tt.start, issue.PeriodStart)
			assert.Equal(t, tt.end, issue.PeriodEnd)
			assert.Len(t, EachDay(issue.PeriodStart, issue.PeriodEnd), int(issue.PeriodEnd.Sub(issue.PeriodStart).Hours()/24)+1)
		})
	}
}

func TestNormalizeEstimatesAndDefaults(t *testing.T) {
	header := schema.RawRow{"Issue", "Заголовок", "Тип", "Исполнитель", "Оценка", "Общая оценка (с подзадачами)", "Status", "Release"}
	n := NewNormalizer(header, fixedNow)

	t.Run("total dominates when larger", func(t *testing.T) {
		issue, ok := n.Normalize(schema.RawRow{"T-1", " Login page ", "Bug", "o.orlova", "1д", "3д", 42.0, "  "})
		require.True(t, ok)
		require.NotNil(t, issue.Title)
		assert.Equal(t, "Login page", *issue.Title)
		require.NotNil(t, issue.Type)
		assert.Equal(t, "Bug", *issue.Type)
		assert.InDelta(t, 3*28800.0, issue.EstimateSeconds, 1e-9)
		assert.Equal(t, schema.DefaultStatus, issue.Status)
		assert.Nil(t, issue.Release)
	})

	t.Run("own dominates when larger", func(t *testing.T) {
		issue, ok := n.Normalize(schema.RawRow{"T-2", "", nil, "o.orlova", "1н", "2д"})
		require.True(t, ok)
		assert.Nil(t, issue.Title)
		assert.Nil(t, issue.Type)
		assert.InDelta(t, 144000.0, issue.EstimateSeconds, 1e-9)
	})

	t.Run("negative estimates floor at zero", func(t *testing.T) {
		issue, ok := n.Normalize(schema.RawRow{"T-3", nil, nil, nil, -30.0, "abc"})
		require.True(t, ok)
		assert.Zero(t, issue.EstimateSeconds)
	})
}

func TestNormalizeNumericIssueID(t *testing.T) {
	issue, ok := NewNormalizer(scenarioHeader, fixedNow).Normalize(schema.RawRow{846.0})
	require.True(t, ok)
	assert.Equal(t, "846", issue.IssueID)
	assert.Equal(t, schema.UnassignedName, issue.Assignee)
}

func TestInferAssignee(t *testing.T) {
	name, ok := InferAssignee("assigned: Maria.Sidorova, reviewer")
	assert.True(t, ok)
	assert.Equal(t, "Maria.Sidorova", name)

	_, ok = InferAssignee("nobody")
	assert.False(t, ok)
}
