// Package sheet turns enquiry tracker files (xlsx workbooks, HTML-table
// .xls exports, CSV and mailed .eml messages) into header-keyed rows.
package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"salesenq/internal"
)

var (
	ErrFileMissing        = errors.New("sheet: file does not exist")
	ErrUnsupportedFormat  = errors.New("sheet: unsupported file format")
	ErrNoSheets           = errors.New("sheet: workbook has no sheets")
	ErrNoAttachment       = errors.New("sheet: message has no spreadsheet attachment")
	biffMagic             = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic              = []byte("PK\x03\x04")
	supportedAttachmentEx = []string{".xlsx", ".xlsm", ".xltx", ".xls", ".csv", ".htm", ".html"}
)

// Table is the first sheet of a file. Rows hold data rows only; the header
// row is consumed into Headers.
type Table struct {
	Sheet   string
	Headers []string
	Rows    []internal.Row
}

// ReadFile reads the file at path, dispatching on its extension.
func ReadFile(path string) (*Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrFileMissing, path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Read(filepath.Base(path), blob)
}

// Read parses content named name. The name only selects the parser.
func Read(name string, content []byte) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx", ".xlsm", ".xltx":
		return readXLSX(content)
	case ".xls":
		switch {
		case bytes.HasPrefix(content, zipMagic):
			return readXLSX(content)
		case bytes.HasPrefix(content, biffMagic):
			return nil, errors.Wrap(ErrUnsupportedFormat, "binary .xls workbook, save it as .xlsx")
		default:
			return readHTML(content)
		}
	case ".htm", ".html":
		return readHTML(content)
	case ".csv":
		return readCSV(content)
	case ".eml":
		return readEmail(content)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
}

// Supported reports whether Read has a parser for name.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".eml" {
		return true
	}
	for _, s := range supportedAttachmentEx {
		if ext == s {
			return true
		}
	}
	return false
}

// newTable builds a Table from a cell grid whose first non-blank row holds
// the headers.
func newTable(sheet string, grid [][]internal.Cell) *Table {
	t := &Table{Sheet: sheet, Headers: []string{}, Rows: []internal.Row{}}

	start := 0
	for start < len(grid) && blankLine(grid[start]) {
		start++
	}
	if start == len(grid) {
		return t
	}

	width := 0
	for _, line := range grid[start:] {
		if len(line) > width {
			width = len(line)
		}
	}
	t.Headers = headerNames(grid[start], width)

	for _, line := range grid[start+1:] {
		if blankLine(line) {
			continue
		}
		t.Rows = append(t.Rows, internal.NewRow(t.Headers, line))
	}
	return t
}

// headerNames names every column: blank headers become __EMPTY, __EMPTY_1
// and so on, repeated headers get a _1, _2 suffix.
func headerNames(line []internal.Cell, width int) []string {
	out := make([]string, width)
	used := map[string]bool{}
	for i := 0; i < width; i++ {
		base := ""
		if i < len(line) {
			base = line[i].String()
		}
		if strings.TrimSpace(base) == "" {
			base = internal.EmptyHeaderPrefix
		}
		name := base
		for n := 1; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func blankLine(line []internal.Cell) bool {
	for _, c := range line {
		if c.Kind != internal.CellEmpty && strings.TrimSpace(c.String()) != "" {
			return false
		}
	}
	return true
}
