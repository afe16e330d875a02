package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"salesenq/internal"
)

func (d *DB) InsertImportRun(ctx context.Context, run internal.ImportRun) error {
	_, err := d.conn.ExecContext(ctx, `
INSERT INTO import_runs (id, source, importedBy, total, successful, failed, skipped, outcomeJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.Source, run.ImportedBy, run.Total, run.Successful, run.Failed, run.Skipped, run.Outcome)
	if isUniqueViolation(err) {
		return &DuplicateKeyError{Field: "import run", Value: run.ID}
	}
	return err
}

func (d *DB) GetImportRun(ctx context.Context, id string) (*internal.ImportRun, error) {
	var run internal.ImportRun
	var importedBy sql.NullInt64
	var createdAt string
	err := d.conn.QueryRowContext(ctx, `
SELECT id, source, importedBy, total, successful, failed, skipped, outcomeJson, createdAt
FROM import_runs WHERE id = ?
`, id).Scan(&run.ID, &run.Source, &importedBy, &run.Total, &run.Successful, &run.Failed, &run.Skipped, &run.Outcome, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if importedBy.Valid {
		v := importedBy.Int64
		run.ImportedBy = &v
	}
	run.CreatedAt = parseTimestamp(createdAt)
	return &run, nil
}

// ListImportRuns returns the most recent runs first.
func (d *DB) ListImportRuns(ctx context.Context, limit int) ([]internal.ImportRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.QueryContext(ctx, `
SELECT id, source, importedBy, total, successful, failed, skipped, outcomeJson, createdAt
FROM import_runs ORDER BY createdAt DESC, rowid DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ImportRun
	for rows.Next() {
		var run internal.ImportRun
		var importedBy sql.NullInt64
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Source, &importedBy, &run.Total, &run.Successful, &run.Failed, &run.Skipped, &run.Outcome, &createdAt); err != nil {
			return nil, err
		}
		if importedBy.Valid {
			v := importedBy.Int64
			run.ImportedBy = &v
		}
		run.CreatedAt = parseTimestamp(createdAt)
		out = append(out, run)
	}
	return out, rows.Err()
}
