package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"salesenq/internal"
)

const personColumns = `id, name, email, passwordHash, role, department, createdAt`

func (d *DB) FindPersonByName(ctx context.Context, name string) (*internal.Person, error) {
	return d.findPerson(ctx, `SELECT `+personColumns+` FROM persons WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (d *DB) FindPersonByEmail(ctx context.Context, email string) (*internal.Person, error) {
	return d.findPerson(ctx, `SELECT `+personColumns+` FROM persons WHERE email = ?`, email)
}

func (d *DB) GetPerson(ctx context.Context, id int64) (*internal.Person, error) {
	return d.findPerson(ctx, `SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
}

func (d *DB) findPerson(ctx context.Context, query string, arg any) (*internal.Person, error) {
	var p internal.Person
	var role, createdAt string
	err := d.conn.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &role, &p.Department, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Role = internal.Role(role)
	p.CreatedAt = parseTimestamp(createdAt)
	return &p, nil
}

func (d *DB) CreatePerson(ctx context.Context, p internal.Person) (internal.Person, error) {
	result, err := d.conn.ExecContext(ctx, `
INSERT INTO persons (name, email, passwordHash, role, department)
VALUES (?, ?, ?, ?, ?)
`, p.Name, p.Email, p.PasswordHash, string(p.Role), p.Department)
	if isUniqueViolation(err) {
		return internal.Person{}, &DuplicateKeyError{Field: "email", Value: p.Email}
	}
	if err != nil {
		return internal.Person{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return internal.Person{}, err
	}

	created, err := d.GetPerson(ctx, id)
	if err != nil {
		return internal.Person{}, err
	}
	if created == nil {
		return internal.Person{}, errors.New("failed to create person")
	}
	return *created, nil
}

func (d *DB) CountPersons(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n)
	return n, err
}
