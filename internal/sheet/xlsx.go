package sheet

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"salesenq/internal"
)

var isoCellLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func readXLSX(content []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", name)
	}

	grid := make([][]internal.Cell, len(rows))
	for r, row := range rows {
		line := make([]internal.Cell, len(row))
		for c, raw := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, errors.Wrapf(err, "cell %s", ref)
			}
			line[c] = typedCell(typ, raw)
		}
		grid[r] = line
	}
	return newTable(name, grid), nil
}

// typedCell keeps numbers numeric so that date serials and quantities reach
// the normalizers unformatted. String cells stay text even when they look
// numeric ("00123" is a PO number, not 123).
func typedCell(typ excelize.CellType, raw string) internal.Cell {
	if raw == "" {
		return internal.Cell{}
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeBool, excelize.CellTypeError:
		return internal.TextCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range isoCellLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return internal.TimeCell(t)
			}
		}
		return internal.TextCell(raw)
	default:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return internal.NumberCell(f)
		}
		return internal.TextCell(raw)
	}
}
