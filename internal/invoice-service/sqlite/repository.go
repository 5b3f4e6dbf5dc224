// Package sqlite persists invoices.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ecommerce-platform/internal/invoice-service/app"
	"ecommerce-platform/internal/invoice-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
    id             TEXT PRIMARY KEY,
    invoice_number TEXT NOT NULL UNIQUE,
    order_id       TEXT NOT NULL,
    client_id      TEXT NOT NULL,
    subtotal       REAL NOT NULL,
    tax            REAL NOT NULL,
    total          REAL NOT NULL,
    status         TEXT NOT NULL,
    issued_at      TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_order_id  ON invoices(order_id);
CREATE INDEX IF NOT EXISTS idx_invoices_client_id ON invoices(client_id);
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

func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) error {
	const q = `
		INSERT INTO invoices (id, invoice_number, order_id, client_id, subtotal, tax, total, status, issued_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		inv.ID, inv.InvoiceNumber, inv.OrderID, inv.ClientID,
		inv.Subtotal, inv.Tax, inv.Total, string(inv.Status),
		formatTime(inv.IssuedAt), formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt),
	); err != nil {
		return fmt.Errorf("sqlite: insert invoice %q: %w", inv.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const q = `
		SELECT id, invoice_number, order_id, client_id, subtotal, tax, total, status, issued_at, created_at, updated_at
		FROM   invoices WHERE id = ?`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "invoice %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find invoice %q: %w", id, err)
	}
	return inv, nil
}

func (r *Repository) Find(ctx context.Context, filter app.Filter) ([]domain.Invoice, error) {
	q := `SELECT id, invoice_number, order_id, client_id, subtotal, tax, total, status, issued_at, created_at, updated_at FROM invoices`
	var (
		conds []string
		args  []any
	)
	if filter.ClientID != "" {
		conds = append(conds, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.OrderID != "" {
		conds = append(conds, "order_id = ?")
		args = append(args, filter.OrderID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *Repository) Save(ctx context.Context, inv *domain.Invoice) error {
	const q = `UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(inv.Status), formatTime(inv.UpdatedAt), inv.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update invoice %q: %w", inv.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update invoice %q: %w", inv.ID, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "invoice %s not found", inv.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var (
		inv       domain.Invoice
		status    string
		issuedAt  string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.ClientID,
		&inv.Subtotal, &inv.Tax, &inv.Total, &status, &issuedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	inv.Status = domain.Status(status)
	var err error
	if inv.IssuedAt, err = parseTime(issuedAt); err != nil {
		return nil, err
	}
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if inv.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
