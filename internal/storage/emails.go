package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"salesenq/internal"
)

const emailColumns = `id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef, importRunId`

// UpsertEmail records a fetched message. Re-fetching a known message
// refreshes its metadata but keeps its status.
func (d *DB) UpsertEmail(ctx context.Context, provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.ExecContext(ctx, `
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(ctx, provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(ctx context.Context, provider, messageID string) (*internal.EmailRow, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM emails WHERE provider = ? AND messageId = ?`, provider, messageID)
	return scanEmailRow(row)
}

func (d *DB) GetEmailByID(ctx context.Context, id int) (*internal.EmailRow, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = ?`, id)
	return scanEmailRow(row)
}

func (d *DB) ListEmailsByStatus(ctx context.Context, status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT `+emailColumns+`
FROM emails WHERE status = ? ORDER BY receivedAt ASC, id ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		row, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpdateEmailStatus moves an email to status. runID links the import run
// that consumed it and may be nil.
func (d *DB) UpdateEmailStatus(ctx context.Context, emailID int, status string, runID *string) error {
	_, err := d.conn.ExecContext(ctx, `
UPDATE emails SET status = ?, importRunId = COALESCE(?, importRunId), updatedAt = CURRENT_TIMESTAMP
WHERE id = ?
`, status, runID, emailID)
	return err
}

func scanEmailRow(s scanner) (*internal.EmailRow, error) {
	row, err := scanEmail(s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func scanEmail(s scanner) (internal.EmailRow, error) {
	var row internal.EmailRow
	var subject, sender, receivedAt, runID sql.NullString
	if err := s.Scan(&row.ID, &row.Provider, &row.MessageID, &subject, &sender, &receivedAt, &row.Hash, &row.Status, &row.RawRef, &runID); err != nil {
		return internal.EmailRow{}, err
	}
	row.Subject = subject.String
	row.Sender = sender.String
	row.ReceivedAt = receivedAt.String
	row.ImportRunID = nullString(runID)
	return row, nil
}
