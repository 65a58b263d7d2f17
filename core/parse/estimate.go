// Package parse turns raw spreadsheet cells into normalized issue records.
package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/workload/schema"
)

// Each component is matched independently, so "3ч 1н" and "1w2d" both work.
var (
	weeksPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)[\s\p{Zs}]*(?:н|w)`)
	daysPattern  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)[\s\p{Zs}]*(?:д|d)`)
	hoursPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)[\s\p{Zs}]*(?:ч|h)`)
)

// EstimateToSeconds converts an estimate cell into seconds.
// Numbers and numeric strings are minutes. Other strings are read as
// weeks/days/hours shorthand such as "1н 2д 3ч" or "1w 2d 3h".
// The second result is false when the value is absent or cannot be read.
func EstimateToSeconds(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return minutesToSeconds(v)
	case float32:
		return minutesToSeconds(float64(v))
	case int:
		return minutesToSeconds(float64(v))
	case int64:
		return minutesToSeconds(float64(v))
	case string:
		return estimateStringToSeconds(v)
	default:
		return 0, false
	}
}

// minutesToSeconds rejects NaN and infinities, including products that overflow.
func minutesToSeconds(minutes float64) (float64, bool) {
	return finiteSeconds(minutes * 60)
}

func finiteSeconds(seconds float64) (float64, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, false
	}
	return seconds, true
}

// estimateStringToSeconds parses the string form of an estimate.
func estimateStringToSeconds(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if minutes, ok := parseDecimal(s); ok {
		return minutesToSeconds(minutes)
	}

	weeks := matchComponent(weeksPattern, s)
	days := matchComponent(daysPattern, s)
	hours := matchComponent(hoursPattern, s)
	if weeks == 0 && days == 0 && hours == 0 {
		return 0, false
	}
	return finiteSeconds(weeks*schema.SecondsPerWeek + days*schema.SecondsPerWorkday + hours*schema.SecondsPerHour)
}

// parseDecimal reads a plain decimal number, accepting ',' as the decimal separator.
func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// matchComponent returns the number in front of the first unit match, or 0.
func matchComponent(pattern *regexp.Regexp, s string) float64 {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, ok := parseDecimal(m[1])
	if !ok {
		return 0
	}
	return v
}
