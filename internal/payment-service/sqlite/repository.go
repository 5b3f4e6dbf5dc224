// Package sqlite persists the payment ledger.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ecommerce-platform/internal/payment-service/app"
	"ecommerce-platform/internal/payment-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS payments (
    id             TEXT PRIMARY KEY,
    order_id       TEXT NOT NULL,
    amount         REAL NOT NULL,
    method         TEXT NOT NULL,
    status         TEXT NOT NULL,
    transaction_id TEXT NOT NULL DEFAULT '',
    failure_reason TEXT NOT NULL DEFAULT '',
    metadata       TEXT,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
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

func (r *Repository) Create(ctx context.Context, p *domain.Payment) error {
	metadata, err := encodeMetadata(p.Metadata)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO payments (id, order_id, amount, method, status, transaction_id, failure_reason, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		p.ID, p.OrderID, p.Amount, string(p.Method), string(p.Status),
		p.TransactionID, p.FailureReason, metadata,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	); err != nil {
		return fmt.Errorf("sqlite: insert payment %q: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	const q = `
		SELECT id, order_id, amount, method, status, transaction_id, failure_reason, metadata, created_at, updated_at
		FROM   payments WHERE id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "payment %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find payment %q: %w", id, err)
	}
	return p, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) ([]domain.Payment, error) {
	const q = `
		SELECT id, order_id, amount, method, status, transaction_id, failure_reason, metadata, created_at, updated_at
		FROM   payments WHERE order_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list payments for order %q: %w", orderID, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *Repository) Save(ctx context.Context, p *domain.Payment) error {
	metadata, err := encodeMetadata(p.Metadata)
	if err != nil {
		return err
	}
	const q = `
		UPDATE payments
		SET    status = ?, transaction_id = ?, failure_reason = ?, metadata = ?, updated_at = ?
		WHERE  id = ?`
	res, err := r.db.ExecContext(ctx, q,
		string(p.Status), p.TransactionID, p.FailureReason, metadata, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update payment %q: %w", p.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update payment %q: %w", p.ID, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "payment %s not found", p.ID)
	}
	return nil
}

func encodeMetadata(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encode metadata: %w", err)
	}
	return string(data), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p         domain.Payment
		method    string
		status    string
		metadata  sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &method, &status,
		&p.TransactionID, &p.FailureReason, &metadata, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Method = domain.Method(method)
	p.Status = domain.Status(status)
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
