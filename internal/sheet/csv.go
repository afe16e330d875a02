package sheet

import (
	"bytes"
	"encoding/csv"

	"github.com/pkg/errors"

	"salesenq/internal"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(content []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}

	grid := make([][]internal.Cell, len(records))
	for i, rec := range records {
		line := make([]internal.Cell, len(rec))
		for j, v := range rec {
			line[j] = internal.TextCell(v)
		}
		grid[i] = line
	}
	return newTable("Sheet1", grid), nil
}
