package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
)

var (
	yearPattern    = regexp.MustCompile(`20\d{2}`)
	quarterPattern = regexp.MustCompile(`(?i)Q([1-4])`)
	monthPattern   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)[\s-]*(\d+)?`)
)

// monthNames maps lowercase English month names to months. Read-only after init.
var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Period parses a free-text period label such as "2026Q1", "2026 March" or
// "2026Q1 January-2". A year starting with "20" is required.
//
// A quarter marker sets the default month span. A month name overrides the
// start month and, with a trailing count, spans that many months clamped to
// December. The result covers whole months.
func Period(text string) (schema.DateRange, bool) {
	yearText := yearPattern.FindString(text)
	if yearText == "" {
		return schema.DateRange{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return schema.DateRange{}, false
	}

	startMonth, endMonth := 1, 12
	if q := quarterPattern.FindStringSubmatch(text); q != nil {
		quarter := int(q[1][0] - '0')
		startMonth = (quarter-1)*3 + 1
		endMonth = startMonth + 2
	}

	if m := monthPattern.FindStringSubmatch(text); m != nil {
		startMonth = int(monthNames[strings.ToLower(m[1])])
		endMonth = startMonth
		// Longer digit runs are years ("March 2026"), not month counts.
		if m[2] != "" && len(m[2]) <= 2 {
			count, _ := strconv.Atoi(m[2])
			endMonth = min(12, startMonth+max(1, count)-1)
		}
	}

	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(endMonth)+1, 0, 0, 0, 0, 0, time.UTC)
	return schema.DateRange{Start: start, End: end}, true
}

// EachDay returns every civil date from start to end inclusive.
// It returns nil when end is before start.
func EachDay(start, end time.Time) []time.Time {
	start, end = CivilDate(start), CivilDate(end)
	if end.Before(start) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// QuarterKey returns the calendar quarter of a date as "YYYYQn".
func QuarterKey(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// QuarterBounds returns the first and last day of the quarter holding t.
func QuarterBounds(t time.Time) (time.Time, time.Time) {
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	start := time.Date(t.Year(), first, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year(), first+3, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// ISODate formats a civil date as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}
