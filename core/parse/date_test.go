package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateValue(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	tests := []struct {
		name     string
		input    any
		expected time.Time
		ok       bool
	}{
		{name: "iso string", input: "2026-01-26", expected: day(2026, time.January, 26), ok: true},
		{name: "rfc3339 keeps its calendar date", input: "2026-02-10T23:30:00+03:00", expected: day(2026, time.February, 10), ok: true},
		{name: "day first dotted", input: "26.01.2026", expected: day(2026, time.January, 26), ok: true},
		{name: "native time drops clock", input: time.Date(2026, time.March, 3, 18, 45, 0, 0, moscow), expected: day(2026, time.March, 3), ok: true},
		{name: "serial", input: 45000.0, expected: day(2023, time.March, 15), ok: true},
		{name: "serial with time fraction", input: 45000.75, expected: day(2023, time.March, 15), ok: true},
		{name: "first serial", input: 1.0, expected: day(1900, time.January, 1), ok: true},
		{name: "serial after leap bug", input: 61.0, expected: day(1900, time.March, 1), ok: true},
		{name: "zero serial", input: 0.0, ok: false},
		{name: "negative serial", input: -5.0, ok: false},
		{name: "serial too large", input: 3e6, ok: false},
		{name: "empty string", input: "", ok: false},
		{name: "garbage string", input: "not a date", ok: false},
		{name: "nil", input: nil, ok: false},
		{name: "false", input: false, ok: false},
		{name: "zero time", input: time.Time{}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateValue(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestCivilDate(t *testing.T) {
	in := time.Date(2026, time.April, 30, 23, 59, 59, 0, time.FixedZone("X", -5*60*60))
	assert.Equal(t, day(2026, time.April, 30), CivilDate(in))
}
