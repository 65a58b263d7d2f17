package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
)

// CellText renders a raw cell the way it reads in a spreadsheet.
func CellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return ISODate(v)
	default:
		return fmt.Sprint(v)
	}
}

// isBlank reports whether a cell carries no usable value.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return v == 0 || math.IsNaN(v)
	case int:
		return v == 0
	case int64:
		return v == 0
	case bool:
		return !v
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}

// cellAt returns the cell at idx, or nil when the row is too short.
func cellAt(row schema.RawRow, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// optionalText is the trimmed text of a non-blank cell, or nil.
func optionalText(value any) *string {
	if isBlank(value) {
		return nil
	}
	s := strings.TrimSpace(CellText(value))
	if s == "" {
		return nil
	}
	return &s
}

// stringCell is the trimmed content of a string cell. Other kinds yield "".
func stringCell(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// joinRow concatenates the text of every cell with single spaces.
func joinRow(row schema.RawRow) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		parts[i] = CellText(cell)
	}
	return strings.Join(parts, " ")
}
