package main

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/pkg/errors"

	"salesenq/internal/importer"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputPath places a relative path under dir.
func outputPath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// writeOutcome prints the outcome of every run that started, and writes its
// report when reportPath is set, then hands back runErr. A cancelled run
// still shows the rows it got through.
func writeOutcome(w io.Writer, outcome importer.Outcome, reportPath string, runErr error) error {
	if outcome.RunID == "" {
		return runErr
	}
	if reportPath != "" {
		if err := importer.ExportOutcomeToXLSX(outcome, reportPath); err != nil {
			return errors.Wrap(err, "write report")
		}
	}
	if err := writeJSON(w, outcome); err != nil {
		return err
	}
	return runErr
}
