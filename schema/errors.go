package schema

import "errors"

// ErrSheetNotFound is returned when the workbook has no sheet to read issues from.
var ErrSheetNotFound = errors.New("sheet 'issues' not found")

// ErrInvalidResponse is returned when the assembled response breaks the published schema.
var ErrInvalidResponse = errors.New("workload response validation failed")
