package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start time.Time
		end   time.Time
		ok    bool
	}{
		{name: "quarter with month count", input: "2026Q1 January-2", start: day(2026, time.January, 1), end: day(2026, time.February, 28), ok: true},
		{name: "quarter only", input: "2026Q2", start: day(2026, time.April, 1), end: day(2026, time.June, 30), ok: true},
		{name: "lowercase quarter", input: "2026 q3", start: day(2026, time.July, 1), end: day(2026, time.September, 30), ok: true},
		{name: "year only", input: "2026", start: day(2026, time.January, 1), end: day(2026, time.December, 31), ok: true},
		{name: "month overrides quarter", input: "Q1 2026 february", start: day(2026, time.February, 1), end: day(2026, time.February, 28), ok: true},
		{name: "count clamps to december", input: "2025 November-5", start: day(2025, time.November, 1), end: day(2025, time.December, 31), ok: true},
		{name: "zero count is one month", input: "2026Q1 January-0", start: day(2026, time.January, 1), end: day(2026, time.January, 31), ok: true},
		// A four-digit run is the year, so this stays March only and does not stretch to December on purpose.
		{name: "year after month is not a count", input: "March 2026", start: day(2026, time.March, 1), end: day(2026, time.March, 31), ok: true},
		{name: "leap february", input: "2028 February", start: day(2028, time.February, 1), end: day(2028, time.February, 29), ok: true},
		{name: "no year", input: "no year here", ok: false},
		{name: "last century", input: "1999Q1", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Period(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.start, got.Start)
				assert.Equal(t, tt.end, got.End)
			}
		})
	}
}

func TestEachDay(t *testing.T) {
	days := EachDay(day(2026, time.January, 30), day(2026, time.February, 2))
	require.Len(t, days, 4)
	assert.Equal(t, "2026-01-30", ISODate(days[0]))
	assert.Equal(t, "2026-02-02", ISODate(days[3]))

	assert.Len(t, EachDay(day(2026, time.May, 5), day(2026, time.May, 5)), 1)
	assert.Nil(t, EachDay(day(2026, time.May, 6), day(2026, time.May, 5)))
}

func TestQuarterKeyAndBounds(t *testing.T) {
	assert.Equal(t, "2026Q1", QuarterKey(day(2026, time.February, 10)))
	assert.Equal(t, "2026Q4", QuarterKey(day(2026, time.December, 31)))

	start, end := QuarterBounds(day(2026, time.November, 17))
	assert.Equal(t, day(2026, time.October, 1), start)
	assert.Equal(t, day(2026, time.December, 31), end)

	start, end = QuarterBounds(day(2026, time.January, 1))
	assert.Equal(t, day(2026, time.January, 1), start)
	assert.Equal(t, day(2026, time.March, 31), end)
}
