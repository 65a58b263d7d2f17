// Package tracker reads issue-tracker JSON exports straight into normalized issues.
// An export is the issue list returned by the tracker REST API, either as a bare
// array or wrapped in an object under "issues".
package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/workload/core/parse"
	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
)

// Epoch values below this are seconds, the rest are milliseconds.
const millisThreshold = 1_000_000_000_000

// maxEpochMillis is 9999-12-31T23:59:59.999Z.
const maxEpochMillis = 253402300799999

// Issue is one exported tracker issue.
type Issue struct {
	ID           string        `json:"id"`
	IDReadable   string        `json:"idReadable"`
	Summary      string        `json:"summary"`
	Assignee     *User         `json:"assignee"`
	IssueType    *NamedValue   `json:"issueType"`
	Created      *float64      `json:"created"`
	Updated      *float64      `json:"updated"`
	CustomFields []CustomField `json:"customFields"`
}

// User is a tracker account.
type User struct {
	Login    string `json:"login"`
	FullName string `json:"fullName"`
}

// NamedValue is any tracker entity exposing a name.
type NamedValue struct {
	Name string `json:"name"`
}

// CustomField is a project field. Its value may be a scalar, an object or a list.
type CustomField struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type wrappedExport struct {
	Issues []Issue `json:"issues"`
}

// Decoder normalizes tracker exports using configurable field names.
type Decoder struct {
	fields schema.TrackerFields
}

// NewDecoder returns a decoder reading the given custom fields.
func NewDecoder(fields schema.TrackerFields) *Decoder {
	return &Decoder{fields: fields}
}

var _ contract.IssueDecoder = &Decoder{} // Compile-time check

// DecodeIssues reads the export at path. Stats name the file in place of a sheet.
func (d *Decoder) DecodeIssues(path string, now time.Time) ([]schema.NormalizedIssue, schema.ParseStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.ParseStats{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	issues, stats, err := d.Decode(bytes.NewReader(data), now)
	if err != nil {
		return nil, schema.ParseStats{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	stats.Sheet = filepath.Base(path)
	return issues, stats, nil
}

// Decode normalizes every issue of an export. Issues without any id are
// skipped and counted. now fixes "today" for issues without any date.
func (d *Decoder) Decode(r io.Reader, now time.Time) ([]schema.NormalizedIssue, schema.ParseStats, error) {
	raw, err := readExport(r)
	if err != nil {
		return nil, schema.ParseStats{}, err
	}

	issues := []schema.NormalizedIssue{}
	var stats schema.ParseStats
	today := parse.CivilDate(now)
	for _, item := range raw {
		stats.Rows++
		issue, ok := d.normalize(item, today)
		if !ok {
			stats.SkippedRows++
			continue
		}
		issues = append(issues, issue)
	}
	stats.Issues = len(issues)
	return issues, stats, nil
}

func readExport(r io.Reader) ([]Issue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty tracker export")
	}
	if data[0] == '{' {
		var wrapped wrappedExport
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Issues, nil
	}
	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (d *Decoder) normalize(item Issue, today time.Time) (schema.NormalizedIssue, bool) {
	id := strings.TrimSpace(item.IDReadable)
	if id == "" {
		id = strings.TrimSpace(item.ID)
	}
	if id == "" {
		return schema.NormalizedIssue{}, false
	}

	issue := schema.NormalizedIssue{
		IssueID:  id,
		Assignee: d.assignee(item),
		Status:   schema.DefaultStatus,
	}
	if summary := strings.TrimSpace(item.Summary); summary != "" {
		issue.Title = &summary
	}
	if typ, ok := textValue(item.field(d.fields.Type)); ok {
		issue.Type = &typ
	} else if item.IssueType != nil && item.IssueType.Name != "" {
		issue.Type = &item.IssueType.Name
	}
	if status, ok := textValue(item.field(d.fields.Status)); ok {
		issue.Status = status
	}

	estimate, _ := estimateSeconds(item.field(d.fields.Estimate))
	issue.EstimateSeconds = max(estimate, 0)
	if qa, ok := estimateSeconds(item.field(d.fields.QA)); ok {
		issue.QASeconds = &qa
	}
	if sp, ok := estimateSeconds(item.field(d.fields.SP)); ok {
		issue.SPSeconds = &sp
	}

	if created, ok := epochDate(item.Created); ok {
		issue.CreatedAt = &created
	}
	if updated, ok := epochDate(item.Updated); ok {
		issue.UpdatedAt = &updated
	}
	issue.PeriodStart, issue.PeriodEnd = d.span(item, issue, today)

	releases := releaseValues(item.field(d.fields.Release))
	if len(releases) > 0 {
		issue.Release = &releases[0]
		issue.ExtraReleases = releases[1:]
	}
	return issue, true
}

// assignee prefers the configured field, then the built-in assignee.
func (d *Decoder) assignee(item Issue) string {
	if name, ok := textValue(item.field(d.fields.Assignee)); ok {
		return name
	}
	if item.Assignee != nil {
		if login := strings.TrimSpace(item.Assignee.Login); login != "" {
			return login
		}
		if full := strings.TrimSpace(item.Assignee.FullName); full != "" {
			return full
		}
	}
	return schema.UnassignedName
}

// span starts at the start field, then created, then updated, then today. Without
// a due date the span covers as many days as the estimate needs, at least one.
func (d *Decoder) span(item Issue, issue schema.NormalizedIssue, today time.Time) (time.Time, time.Time) {
	start, ok := dateValue(item.field(d.fields.StartDate))
	if !ok {
		start = today
		if issue.UpdatedAt != nil {
			start = *issue.UpdatedAt
		}
		if issue.CreatedAt != nil {
			start = *issue.CreatedAt
		}
	}

	end, ok := dateValue(item.field(d.fields.EndDate))
	if !ok {
		days := min(max(1, math.Ceil(issue.EstimateSeconds/schema.SecondsPerWorkday)), schema.MaxDerivedSpanDays)
		end = start.AddDate(0, 0, int(days)-1)
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end
}

// field returns the value of the named custom field, or nil when absent or disabled.
func (i Issue) field(name string) any {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, f := range i.CustomFields {
		if strings.EqualFold(strings.TrimSpace(f.Name), name) {
			return f.Value
		}
	}
	return nil
}

// textValue reads the display text of a field value. Lists yield their first text.
func textValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		return parse.CellText(v), true
	case []any:
		for _, entry := range v {
			if s, ok := textValue(entry); ok {
				return s, true
			}
		}
	case map[string]any:
		for _, key := range []string{"name", "localizedName", "text", "login", "fullName"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}

// releaseValues reads every release of a single or multi-valued field, in order.
func releaseValues(value any) []string {
	list, ok := value.([]any)
	if !ok {
		if s, ok := textValue(value); ok {
			return []string{s}
		}
		return nil
	}
	var names []string
	for _, entry := range list {
		if s, ok := textValue(entry); ok {
			names = append(names, s)
		}
	}
	return names
}

// estimateSeconds reads numbers and strings like a sheet cell, and period
// objects through their "minutes" or "duration" member.
func estimateSeconds(value any) (float64, bool) {
	if obj, ok := value.(map[string]any); ok {
		for _, key := range []string{"minutes", "duration"} {
			if minutes, ok := obj[key].(float64); ok {
				return parse.EstimateToSeconds(minutes)
			}
		}
		return 0, false
	}
	return parse.EstimateToSeconds(value)
}

// dateValue reads epoch numbers, date strings and objects carrying "date" or "timestamp".
func dateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		return epochDate(&v)
	case string:
		return parse.DateValue(v)
	case map[string]any:
		for _, key := range []string{"date", "timestamp"} {
			if n, ok := v[key].(float64); ok {
				return epochDate(&n)
			}
		}
	}
	return time.Time{}, false
}

// epochDate converts epoch seconds or milliseconds into a calendar date.
func epochDate(v *float64) (time.Time, bool) {
	if v == nil || *v == 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return time.Time{}, false
	}
	ms := *v
	if math.Abs(ms) < millisThreshold {
		ms *= 1000
	}
	if math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return parse.CivilDate(time.UnixMilli(int64(ms)).UTC()), true
}
