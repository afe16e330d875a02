package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateKey matches every unique-constraint violation reported by the
// store.
var ErrDuplicateKey = errors.New("duplicate key")

// DuplicateKeyError names the unique column that rejected a write.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate key: " + e.Field + " " + `"` + e.Value + `"` + " already exists"
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

type DB struct {
	conn     *sql.DB
	validate *validator.Validate
	now      func() time.Time
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// One writer keeps the enquiry number sequence and the unique checks
	// serialised.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "enable wal")
	}
	if _, err := conn.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}

	db := &DB{conn: conn, validate: validator.New(), now: time.Now}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS persons (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  passwordHash TEXT NOT NULL,
  role TEXT NOT NULL,
  department TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_persons_name ON persons(name);

CREATE TABLE IF NOT EXISTS enquiries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  enquiryNumber TEXT NOT NULL UNIQUE,
  srNo TEXT,
  customerName TEXT NOT NULL,
  contactInfo TEXT,
  marketType TEXT NOT NULL,
  poNumber TEXT,
  dateReceived TEXT,
  enquiryDate TEXT NOT NULL,
  dateSubmitted TEXT,
  enquiryDetails TEXT,
  requirementSpec TEXT,
  quantity INTEGER,
  estimatedValue TEXT,
  drawingStatus TEXT NOT NULL,
  costingStatus TEXT NOT NULL,
  rndStatus TEXT NOT NULL,
  salesStatus TEXT NOT NULL,
  salesRepId INTEGER NOT NULL,
  rndHandlerId INTEGER,
  status TEXT NOT NULL,
  activity TEXT NOT NULL,
  supplyScope TEXT,
  productType TEXT NOT NULL,
  manufacturingScope TEXT,
  quoteDate TEXT,
  closureDate TEXT,
  daysRequired INTEGER,
  fulfillmentDays INTEGER,
  remarks TEXT,
  delayRemarks TEXT,
  createdBy INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(salesRepId) REFERENCES persons(id),
  FOREIGN KEY(rndHandlerId) REFERENCES persons(id),
  FOREIGN KEY(createdBy) REFERENCES persons(id)
);
CREATE INDEX IF NOT EXISTS idx_enquiries_customer ON enquiries(customerName);
CREATE INDEX IF NOT EXISTS idx_enquiries_date ON enquiries(enquiryDate);

CREATE TABLE IF NOT EXISTS import_runs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  importedBy INTEGER,
  total INTEGER NOT NULL,
  successful INTEGER NOT NULL,
  failed INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  outcomeJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  importRunId TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const dateLayout = "2006-01-02"

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// parseTimestamp reads sqlite CURRENT_TIMESTAMP values.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
