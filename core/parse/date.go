package parse

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// maxSerial is the serial of 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// Day-first layouts tried when dateparse cannot read a string.
var dayFirstLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"02/01/2006",
}

// CivilDate drops the time of day and returns the calendar date at midnight UTC.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateValue decodes a date cell. Native times pass through, numbers are
// spreadsheet serials and strings go through general date parsing.
// The second result is false for empty, zero or unparseable values.
func DateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return CivilDate(v), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return DateValue(*v)
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case string:
		return stringToDate(v)
	default:
		return time.Time{}, false
	}
}

// serialToDate converts a 1900-system serial, honoring the fictitious 1900-02-29.
func serialToDate(serial float64) (time.Time, bool) {
	if serial == 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	if serial < 0 || serial > maxSerial {
		return time.Time{}, false
	}
	days := int(math.Floor(serial))
	if days < 60 {
		return time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days), true
	}
	// Serial 60 is the nonexistent 1900-02-29, which normalizes to March 1.
	if days == 60 {
		return time.Date(1900, time.February, 29, 0, 0, 0, 0, time.UTC), true
	}
	return time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days), true
}

func stringToDate(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	// dateparse has panicked on malformed input before; treat that as unparseable.
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return CivilDate(t), true
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return CivilDate(t), true
		}
	}
	return time.Time{}, false
}
