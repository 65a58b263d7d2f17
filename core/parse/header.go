package parse

import (
	"strings"
	"unicode"

	"github.com/huangsam/workload/schema"
)

// NormalizeHeader lower-cases a header and strips every whitespace rune.
func NormalizeHeader(header string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(header)))
}

// ResolveField returns the index of the first header containing any keyword, or NoColumn.
func ResolveField(normalized []string, keywords []string) int {
	for i, h := range normalized {
		if h == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return schema.NoColumn
}

// ResolveHeaders maps every field of groups to its header position.
// Lookups are independent, so two fields may resolve to the same column.
func ResolveHeaders(headers []string, groups []schema.HeaderGroup) schema.HeaderIndex {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	index := make(schema.HeaderIndex, len(groups))
	for _, g := range groups {
		index[g.Field] = ResolveField(normalized, g.Keywords)
	}
	return index
}

// HeaderTexts stringifies and trims the cells of a header row.
func HeaderTexts(row schema.RawRow) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(CellText(cell))
	}
	return out
}
