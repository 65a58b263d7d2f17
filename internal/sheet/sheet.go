// Package sheet decodes spreadsheet files into untyped rows for the parsing core.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Decoder reads .xlsx and .csv files.
type Decoder struct{}

// NewDecoder returns a workbook decoder for the supported extensions.
func NewDecoder() *Decoder {
	return &Decoder{}
}

var _ contract.WorkbookDecoder = &Decoder{} // Compile-time check

// DecodeFile reads the workbook stored at path.
func (d *Decoder) DecodeFile(path string) (*schema.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d.DecodeBytes(filepath.Base(path), data)
}

// DecodeBytes decodes an in-memory file. The name only selects the format by extension.
func (d *Decoder) DecodeBytes(name string, data []byte) (*schema.Workbook, error) {
	var (
		wb  *schema.Workbook
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case schema.XLSXExt:
		wb, err = decodeXLSX(bytes.NewReader(data), int64(len(data)))
	case schema.CSVExt:
		wb, err = decodeCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format for %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return wb, nil
}

func decodeXLSX(r io.ReaderAt, size int64) (*schema.Workbook, error) {
	book, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, err
	}

	wb := &schema.Workbook{}
	for _, sh := range book.Sheets() {
		wb.Sheets = append(wb.Sheets, readSheet(sh))
	}
	return wb, nil
}

// readSheet places every cell by its column reference, so sparse rows keep their positions.
// Missing rows between populated ones come back as empty rows.
func readSheet(sh spreadsheet.Sheet) schema.Sheet {
	out := schema.Sheet{Name: sh.Name()}
	for _, row := range sh.Rows() {
		rowIdx := int(row.RowNumber()) - 1
		if rowIdx < 0 {
			continue
		}
		for len(out.Rows) <= rowIdx {
			out.Rows = append(out.Rows, schema.RawRow{})
		}

		var cells schema.RawRow
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(colName))
			for len(cells) <= colIdx {
				cells = append(cells, nil)
			}
			cells[colIdx] = cellValue(cell)
		}
		out.Rows[rowIdx] = cells
	}
	return out
}

// cellValue maps a cell to float64, bool, string or nil.
// Dates stay as serial numbers and are resolved by the parsing core.
func cellValue(cell spreadsheet.Cell) any {
	if cell.IsEmpty() {
		return nil
	}
	switch cell.X().TAttr {
	case sml.ST_CellTypeB:
		if b, err := cell.GetValueAsBool(); err == nil {
			return b
		}
	case sml.ST_CellTypeS, sml.ST_CellTypeStr, sml.ST_CellTypeInlineStr:
		return cell.GetString()
	case sml.ST_CellTypeE:
		return nil
	}
	if cell.IsNumber() {
		if v, err := cell.GetValueAsNumber(); err == nil {
			return v
		}
	}
	if s := cell.GetString(); s != "" {
		return s
	}
	return nil
}

// decodeCSV exposes a delimited file as a single sheet named "issues".
// Every cell is text; empty cells become nil.
func decodeCSV(r io.Reader) (*schema.Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	sh := schema.Sheet{Name: schema.IssuesSheet}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(schema.RawRow, len(record))
		for i, field := range record {
			if i == 0 {
				field = strings.TrimPrefix(field, "\ufeff")
			}
			if field != "" {
				row[i] = field
			}
		}
		sh.Rows = append(sh.Rows, row)
	}
	return &schema.Workbook{Sheets: []schema.Sheet{sh}}, nil
}
