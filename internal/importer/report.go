package importer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesenq/internal"
)

// ExportOutcomeToXLSX writes outcome as a workbook with Summary, Errors and
// Columns sheets.
func ExportOutcomeToXLSX(outcome Outcome, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), "Summary"); err != nil {
		return err
	}
	writeRows(f, "Summary", [][]any{
		{"run_id", outcome.RunID},
		{"total", outcome.Total},
		{"successful", outcome.Successful},
		{"failed", outcome.Failed},
		{"skipped", outcome.Skipped},
	})

	if _, err := f.NewSheet("Errors"); err != nil {
		return err
	}
	errorRows := [][]any{{"row", "error"}}
	for _, e := range outcome.Errors {
		errorRows = append(errorRows, []any{e.Row, e.Error})
	}
	writeRows(f, "Errors", errorRows)

	if _, err := f.NewSheet("Columns"); err != nil {
		return err
	}
	suggestions := map[string]string{}
	unmapped := map[string]bool{}
	for _, u := range outcome.Unmapped {
		unmapped[u.Column] = true
		suggestions[u.Column] = u.Suggestion
	}
	columnRows := [][]any{{"column", "mapped", "suggestion"}}
	for _, name := range outcome.ColumnNames {
		mapped := "yes"
		switch {
		case strings.HasPrefix(name, internal.EmptyHeaderPrefix):
			mapped = "blank header"
		case unmapped[name]:
			mapped = "no"
		}
		columnRows = append(columnRows, []any{name, mapped, suggestions[name]})
	}
	writeRows(f, "Columns", columnRows)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) {
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}
