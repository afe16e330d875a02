package sheet

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"salesenq/internal"
	"salesenq/internal/util"
)

// readHTML reads the first table with rows. Trackers exported from web
// portals often arrive as .xls files that are really HTML tables.
func readHTML(content []byte) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	var grid [][]internal.Cell
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			line := []internal.Cell{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				line = append(line, internal.TextCell(util.CollapseSpaces(cell.Text())))
			})
			grid = append(grid, line)
		})
		return len(grid) == 0
	})
	if len(grid) == 0 {
		return nil, errors.Wrap(ErrUnsupportedFormat, "no table found")
	}
	return newTable("Sheet1", grid), nil
}
