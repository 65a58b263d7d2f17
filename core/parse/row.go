package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
)

var assigneePattern = regexp.MustCompile(`(?i)[a-z]+\.[a-z]+`)

// InferAssignee extracts the first "firstname.lastname" token from text.
func InferAssignee(text string) (string, bool) {
	m := assigneePattern.FindString(text)
	return m, m != ""
}

// Normalizer converts data rows into issues using a resolved header index.
// A Normalizer is bound to one sheet and is not shared between calls.
type Normalizer struct {
	index     schema.HeaderIndex
	fallbacks map[schema.Field]int
	today     time.Time
}

// NewNormalizer resolves the header row and fixes "today" for the fallback period.
func NewNormalizer(header schema.RawRow, now time.Time) *Normalizer {
	fallbacks := make(map[schema.Field]int, len(schema.HeaderGroups))
	for _, g := range schema.HeaderGroups {
		fallbacks[g.Field] = g.Fallback
	}
	return &Normalizer{
		index:     ResolveHeaders(HeaderTexts(header), schema.HeaderGroups),
		fallbacks: fallbacks,
		today:     CivilDate(now),
	}
}

// Index returns the resolved header positions.
func (n *Normalizer) Index() schema.HeaderIndex {
	return n.index
}

// column returns the cell for a field, using its positional fallback when unresolved.
func (n *Normalizer) column(row schema.RawRow, field schema.Field) any {
	fallback, ok := n.fallbacks[field]
	if !ok {
		fallback = schema.NoColumn
	}
	return cellAt(row, n.index.Pick(field, fallback))
}

// resolvedColumn returns the cell for a field only when its header matched.
func (n *Normalizer) resolvedColumn(row schema.RawRow, field schema.Field) any {
	if !n.index.Resolved(field) {
		return nil
	}
	return cellAt(row, n.index[field])
}

// Normalize turns one data row into an issue. It returns false only when
// the issue id is empty; every other bad cell falls back to a default.
func (n *Normalizer) Normalize(row schema.RawRow) (schema.NormalizedIssue, bool) {
	issueID := strings.TrimSpace(CellText(n.column(row, schema.IssueIDField)))
	if issueID == "" {
		return schema.NormalizedIssue{}, false
	}

	issue := schema.NormalizedIssue{
		IssueID:  issueID,
		Title:    optionalText(n.resolvedColumn(row, schema.TitleField)),
		Type:     optionalText(n.resolvedColumn(row, schema.TypeField)),
		Assignee: n.assignee(row),
		Status:   schema.DefaultStatus,
	}

	own, _ := EstimateToSeconds(n.column(row, schema.OwnEstimateField))
	total, _ := EstimateToSeconds(n.resolvedColumn(row, schema.TotalEstimateField))
	issue.EstimateSeconds = max(own, total, 0)

	if created, ok := DateValue(n.column(row, schema.CreatedField)); ok {
		issue.CreatedAt = &created
	}
	if updated, ok := DateValue(n.column(row, schema.UpdatedField)); ok {
		issue.UpdatedAt = &updated
	}
	issue.PeriodStart, issue.PeriodEnd = n.period(row, issue.CreatedAt, issue.UpdatedAt)

	if status := stringCell(n.column(row, schema.StatusField)); status != "" {
		issue.Status = status
	}
	if release := stringCell(n.column(row, schema.ReleaseField)); release != "" {
		issue.Release = &release
	}
	if qa, ok := EstimateToSeconds(n.column(row, schema.QAField)); ok {
		issue.QASeconds = &qa
	}
	if sp, ok := EstimateToSeconds(n.column(row, schema.SPField)); ok {
		issue.SPSeconds = &sp
	}
	return issue, true
}

// assignee tries the assignee column, then column 1 and the whole row when
// no assignee header exists.
func (n *Normalizer) assignee(row schema.RawRow) string {
	if n.index.Resolved(schema.AssigneeField) {
		if name, ok := InferAssignee(CellText(cellAt(row, n.index[schema.AssigneeField]))); ok {
			return name
		}
		return schema.UnassignedName
	}
	if name, ok := InferAssignee(CellText(n.column(row, schema.AssigneeField))); ok {
		return name
	}
	if name, ok := InferAssignee(joinRow(row)); ok {
		return name
	}
	return schema.UnassignedName
}

// period resolves the span from the period label, then the timestamps, then today.
func (n *Normalizer) period(row schema.RawRow, created, updated *time.Time) (time.Time, time.Time) {
	if r, ok := Period(CellText(n.column(row, schema.PeriodField))); ok {
		return r.Start, r.End
	}
	start, end := n.today, n.today
	switch {
	case created != nil && updated != nil:
		start, end = *created, *updated
	case created != nil:
		start, end = *created, *created
	case updated != nil:
		start, end = *updated, *updated
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end
}

// NormalizeRows normalizes every row after the header. Rows with an empty
// issue id are skipped and counted in the returned stats.
func NormalizeRows(rows []schema.RawRow, now time.Time) ([]schema.NormalizedIssue, schema.ParseStats) {
	issues := []schema.NormalizedIssue{}
	var stats schema.ParseStats
	if len(rows) == 0 {
		return issues, stats
	}
	n := NewNormalizer(rows[0], now)
	for _, row := range rows[1:] {
		stats.Rows++
		issue, ok := n.Normalize(row)
		if !ok {
			stats.SkippedRows++
			continue
		}
		issues = append(issues, issue)
	}
	stats.Issues = len(issues)
	return issues, stats
}
