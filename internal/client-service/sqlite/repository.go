// Package sqlite persists client profiles.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ecommerce-platform/internal/client-service/app"
	"ecommerce-platform/internal/client-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id         TEXT PRIMARY KEY,
    email      TEXT NOT NULL UNIQUE,
    password   TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    phone      TEXT NOT NULL DEFAULT '',
    role       TEXT NOT NULL DEFAULT 'client',
    address    TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_email ON clients(email);
`

// Repository is the SQLite implementation of app.Repository.
type Repository struct {
	db *sql.DB
}

var _ app.Repository = (*Repository)(nil)

func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Create(ctx context.Context, c *domain.Client) error {
	address, err := encodeAddress(c.Address)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO clients (id, email, password, first_name, last_name, phone, role, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		c.ID, c.Email, c.Password, c.FirstName, c.LastName, c.Phone, c.Role,
		address, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.Wrap(apperr.KindConflict, err, "email %s is already in use", c.Email)
		}
		return fmt.Errorf("sqlite: insert client %q: %w", c.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.findOne(ctx, "id = ?", id, "client "+id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.findOne(ctx, "email = ?", email, "client with email "+email)
}

func (r *Repository) findOne(ctx context.Context, where string, arg any, label string) (*domain.Client, error) {
	q := `SELECT id, email, password, first_name, last_name, phone, role, address, created_at, updated_at FROM clients WHERE ` + where
	c, err := scanClient(r.db.QueryRowContext(ctx, q, arg))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "%s not found", label)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find %s: %w", label, err)
	}
	return c, nil
}

func (r *Repository) Find(ctx context.Context, limit, offset int) ([]domain.Client, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count clients: %w", err)
	}

	const q = `
		SELECT id, email, password, first_name, last_name, phone, role, address, created_at, updated_at
		FROM   clients ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, total, rows.Err()
}

func (r *Repository) Save(ctx context.Context, c *domain.Client) error {
	address, err := encodeAddress(c.Address)
	if err != nil {
		return err
	}
	const q = `
		UPDATE clients
		SET    first_name = ?, last_name = ?, phone = ?, role = ?, address = ?, updated_at = ?
		WHERE  id = ?`
	res, err := r.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Phone, c.Role, address, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update client %q: %w", c.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update client %q: %w", c.ID, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "client %s not found", c.ID)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete client %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete client %q: %w", id, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "client %s not found", id)
	}
	return nil
}

func encodeAddress(a *domain.Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encode address: %w", err)
	}
	return string(data), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		c         domain.Client
		address   sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Email, &c.Password, &c.FirstName, &c.LastName,
		&c.Phone, &c.Role, &address, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if address.Valid && address.String != "" {
		c.Address = &domain.Address{}
		if err := json.Unmarshal([]byte(address.String), c.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
