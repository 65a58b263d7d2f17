package parse

import (
	"testing"
)

// FuzzEstimateToSeconds checks that arbitrary estimate text never panics.
func FuzzEstimateToSeconds(f *testing.F) {
	seeds := []string{
		"1н 2д 3ч",
		"1w 2d 3h",
		"1,5",
		"",
		"abc",
		"99999999999999999999w",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		seconds, ok := EstimateToSeconds(input)
		if !ok && seconds != 0 {
			t.Errorf("absent estimate carried a value: %v", seconds)
		}
	})
}

// FuzzPeriod checks that a parsed period never ends before it starts.
func FuzzPeriod(f *testing.F) {
	seeds := []string{
		"2026Q1 January-2",
		"2026",
		"Q4 2030 december-99",
		"no year here",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		r, ok := Period(input)
		if ok && r.End.Before(r.Start) {
			t.Errorf("period %q ends before it starts", input)
		}
	})
}

// FuzzDateValue fuzzes string date parsing.
func FuzzDateValue(f *testing.F) {
	seeds := []string{"2026-01-26", "26.01.2026", "Feb 10, 2026", "garbage"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = DateValue(input)
	})
}
