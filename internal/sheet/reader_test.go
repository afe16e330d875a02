package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesenq/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func cell(t *testing.T, row internal.Row, header string) internal.Cell {
	t.Helper()
	c, ok := row.Get(header)
	require.True(t, ok, "header %q missing", header)
	return c
}

func TestReadXLSXKeepsCellTypes(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Customer Name", "DATE RECEIVED", "PO No.", "Quantity"},
		{"Acme Corp", 45292, "00123", 12.5},
		{nil, nil, nil, nil},
		{"Globex", "05/03/2024", "PO-9", "ten"},
	})

	table, err := Read("tracker.xlsx", blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer Name", "DATE RECEIVED", "PO No.", "Quantity"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, internal.TextCell("Acme Corp"), cell(t, first, "Customer Name"))
	assert.Equal(t, internal.NumberCell(45292), cell(t, first, "DATE RECEIVED"))
	assert.Equal(t, internal.TextCell("00123"), cell(t, first, "PO No."))
	assert.Equal(t, internal.NumberCell(12.5), cell(t, first, "Quantity"))

	second := table.Rows[1]
	assert.Equal(t, internal.TextCell("05/03/2024"), cell(t, second, "DATE RECEIVED"))
}

func TestReadXLSXNamesBlankAndDuplicateHeaders(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Remarks", nil, "Remarks", nil},
		{"a", "b", "c", "d"},
	})

	table, err := Read("tracker.xlsx", blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Remarks", "__EMPTY", "Remarks_1", "__EMPTY_1"}, table.Headers)
	assert.Equal(t, "d", cell(t, table.Rows[0], "__EMPTY_1").Text)
}

func TestReadXLSXHeaderOnly(t *testing.T) {
	table, err := Read("tracker.xlsx", mkXLSX([][]any{{"Customer Name", "Enq No."}}))
	require.NoError(t, err)
	assert.Len(t, table.Headers, 2)
	assert.Empty(t, table.Rows)
}

func TestReadHTMLTable(t *testing.T) {
	html := `<html><body><table>
<tr><th>Customer Name</th><th>EXPORT / DOMESTIC</th></tr>
<tr><td> Acme
 Corp </td><td>Export</td></tr>
<tr><td></td><td></td></tr>
</table></body></html>`

	table, err := Read("portal-export.xls", []byte(html))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme Corp", cell(t, table.Rows[0], "Customer Name").Text)
	assert.Equal(t, "Export", cell(t, table.Rows[0], "EXPORT / DOMESTIC").Text)
}

func TestReadBinaryXLSUnsupported(t *testing.T) {
	blob := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	_, err := Read("legacy.xls", blob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestReadCSV(t *testing.T) {
	blob := []byte("\xEF\xBB\xBFCustomer Name,Qty,Notes\r\nAcme Corp,5,\"first, second\"\r\n,,\r\nGlobex,7\r\n")

	table, err := Read("tracker.csv", blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer Name", "Qty", "Notes"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "first, second", cell(t, table.Rows[0], "Notes").Text)
	assert.Equal(t, internal.Cell{}, cell(t, table.Rows[1], "Notes"))
}

func TestReadEmailAttachment(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Customer Name"},
		{"Acme Corp"},
	})
	part, err := enmime.Builder().
		From("Sales Desk", "desk@example.com").
		To("Importer", "import@example.com").
		Subject("Weekly tracker").
		Text([]byte("tracker attached")).
		AddAttachment(blob, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "tracker.xlsx").
		Build()
	require.NoError(t, err)
	raw := bytes.NewBuffer(nil)
	require.NoError(t, part.Encode(raw))

	name, _, err := Attachment(raw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "tracker.xlsx", name)

	table, err := Read("message.eml", raw.Bytes())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme Corp", cell(t, table.Rows[0], "Customer Name").Text)
}

func TestReadEmailWithoutAttachment(t *testing.T) {
	part, err := enmime.Builder().
		From("Sales Desk", "desk@example.com").
		To("Importer", "import@example.com").
		Subject("No file").
		Text([]byte("forgot the file")).
		Build()
	require.NoError(t, err)
	raw := bytes.NewBuffer(nil)
	require.NoError(t, part.Encode(raw))

	_, err = Read("message.eml", raw.Bytes())
	assert.True(t, errors.Is(err, ErrNoAttachment))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileMissing))
}

func TestReadFileUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	_, err := ReadFile(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestReadCorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := ReadFile(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFileMissing))
}
