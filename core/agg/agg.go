// Package agg spreads issue estimates over calendar days and builds the workload response.
package agg

import (
	"math"
	"slices"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/huangsam/workload/core/parse"
	"github.com/huangsam/workload/schema"
)

type (
	// dayMap holds day buckets of one quarter keyed by ISO date.
	dayMap = orderedmap.OrderedMap[string, *schema.DayBucket]

	// quarterMap holds the quarters of one assignee keyed by "YYYYQn".
	quarterMap = orderedmap.OrderedMap[string, *dayMap]
)

// Aggregator accumulates issues into per-assignee day buckets.
// It keeps first-seen order for assignees, quarters and releases.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	assignees *orderedmap.OrderedMap[string, *quarterMap]
	releases  *orderedmap.OrderedMap[string, time.Time]
	titles    map[string]*string
	types     map[string]*string
	estimates map[string]float64
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		assignees: orderedmap.New[string, *quarterMap](),
		releases:  orderedmap.New[string, time.Time](),
		titles:    make(map[string]*string),
		types:     make(map[string]*string),
		estimates: make(map[string]float64),
	}
}

// BuildWorkload aggregates issues in input order and assembles the response.
func BuildWorkload(issues []schema.NormalizedIssue) *schema.WorkloadResponse {
	a := NewAggregator()
	for _, issue := range issues {
		a.Add(issue)
	}
	return a.Response()
}

// Add folds one issue into the aggregate.
func (a *Aggregator) Add(issue schema.NormalizedIssue) {
	a.recordMetadata(issue)

	days := parse.EachDay(issue.PeriodStart, issue.PeriodEnd)
	if len(days) > 0 {
		n := float64(len(days))
		base := issue.EstimateSeconds / schema.SecondsPerWorkday
		qa := secondsToDays(issue.QASeconds)
		sp := secondsToDays(issue.SPSeconds)
		loadShare := (base + qa + sp) / n
		qaShare, spShare := qa/n, sp/n

		for _, d := range days {
			bucket := a.bucket(issue.Assignee, d)
			bucket.Load = addCapped(bucket.Load, loadShare)
			bucket.QA = addCapped(bucket.QA, qaShare)
			bucket.SP = addCapped(bucket.SP, spShare)
			bucket.AddTask(issue.IssueID)
		}
	}

	for _, name := range issue.ReleaseNames() {
		a.releases.Set(name, releaseDate(issue))
	}
}

// recordMetadata keeps the first title and type and the largest estimate per issue.
func (a *Aggregator) recordMetadata(issue schema.NormalizedIssue) {
	id := issue.IssueID
	if _, seen := a.titles[id]; !seen {
		a.titles[id] = issue.Title
		a.types[id] = issue.Type
	}
	days := issue.EstimateSeconds / schema.SecondsPerWorkday
	if prev, ok := a.estimates[id]; !ok || days > prev {
		a.estimates[id] = days
	}
}

// bucket returns the day bucket of an assignee, creating it on first use.
func (a *Aggregator) bucket(assignee string, d time.Time) *schema.DayBucket {
	quarters, ok := a.assignees.Get(assignee)
	if !ok {
		quarters = orderedmap.New[string, *dayMap]()
		a.assignees.Set(assignee, quarters)
	}
	key := parse.QuarterKey(d)
	days, ok := quarters.Get(key)
	if !ok {
		days = orderedmap.New[string, *schema.DayBucket]()
		quarters.Set(key, days)
	}
	iso := parse.ISODate(d)
	b, ok := days.Get(iso)
	if !ok {
		b = &schema.DayBucket{}
		days.Set(iso, b)
	}
	return b
}

// Response assembles the nested response. Loads are rounded here and only here.
func (a *Aggregator) Response() *schema.WorkloadResponse {
	resp := schema.EmptyResponse()
	resp.TaskTitles = a.titles
	resp.TaskTypes = a.types
	resp.TaskEstimates = a.estimates

	for pair := a.assignees.Oldest(); pair != nil; pair = pair.Next() {
		assignee := schema.Assignee{Name: pair.Key, Periods: []schema.Period{}}
		for q := pair.Value.Oldest(); q != nil; q = q.Next() {
			assignee.Periods = append(assignee.Periods, buildPeriod(q.Key, q.Value))
		}
		resp.Assignees = append(resp.Assignees, assignee)
	}

	for pair := a.releases.Oldest(); pair != nil; pair = pair.Next() {
		resp.Releases = append(resp.Releases, schema.Release{Name: pair.Key, Date: parse.ISODate(pair.Value)})
	}
	return resp
}

// buildPeriod emits one quarter with its days sorted by date.
func buildPeriod(key string, days *dayMap) schema.Period {
	dates := make([]string, 0, days.Len())
	for pair := days.Oldest(); pair != nil; pair = pair.Next() {
		dates = append(dates, pair.Key)
	}
	slices.Sort(dates)

	period := schema.Period{Name: key, Days: make([]schema.Day, 0, len(dates))}
	for _, iso := range dates {
		b, _ := days.Get(iso)
		day := schema.Day{
			Date:  iso,
			Load:  Round(b.Load),
			Tasks: slices.Clone(b.Tasks),
		}
		if qa := Round(b.QA); qa > 0 {
			day.QALoad = &qa
		}
		if sp := Round(b.SP); sp > 0 {
			day.SPLoad = &sp
		}
		period.Days = append(period.Days, day)
	}

	if len(dates) > 0 {
		first, _ := time.Parse(time.DateOnly, dates[0])
		start, end := parse.QuarterBounds(first)
		period.Start, period.End = parse.ISODate(start), parse.ISODate(end)
	}
	return period
}

// releaseDate is the issue's update date, or the 15th of its start month.
func releaseDate(issue schema.NormalizedIssue) time.Time {
	if issue.UpdatedAt != nil {
		return *issue.UpdatedAt
	}
	return time.Date(issue.PeriodStart.Year(), issue.PeriodStart.Month(), 15, 0, 0, 0, 0, time.UTC)
}

func secondsToDays(seconds *float64) float64 {
	if seconds == nil {
		return 0
	}
	return *seconds / schema.SecondsPerWorkday
}

// addCapped sums two loads, saturating at the largest finite float.
func addCapped(a, b float64) float64 {
	sum := a + b
	if math.IsInf(sum, 1) {
		return math.MaxFloat64
	}
	return sum
}

// Round rounds a load to the emitted number of decimals.
// Loads too large to scale have no fractional part and are returned as is.
func Round(v float64) float64 {
	scale := math.Pow10(schema.LoadDecimals)
	scaled := v * scale
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / scale
}
