// Package sqlite persists catalog records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/product-service/app"
	"ecommerce-platform/internal/product-service/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       REAL NOT NULL,
    stock       INTEGER NOT NULL DEFAULT 0,
    category    TEXT NOT NULL,
    images      TEXT NOT NULL DEFAULT '[]',
    attributes  TEXT NOT NULL DEFAULT '{}',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
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

func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	images, attributes, err := encodeJSONCols(p)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO products (id, name, description, price, stock, category, images, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category,
		images, attributes, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	); err != nil {
		return fmt.Errorf("sqlite: insert product %q: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, category, images, attributes, created_at, updated_at
		FROM   products WHERE id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find product %q: %w", id, err)
	}
	return p, nil
}

func (r *Repository) Find(ctx context.Context, filter app.Filter) ([]domain.Product, int, error) {
	where := ""
	args := []any{}
	if filter.Category != "" {
		where = " WHERE category = ?"
		args = append(args, filter.Category)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count products: %w", err)
	}

	q := `SELECT id, name, description, price, stock, category, images, attributes, created_at, updated_at FROM products` +
		where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *Repository) Save(ctx context.Context, p *domain.Product) error {
	images, attributes, err := encodeJSONCols(p)
	if err != nil {
		return err
	}
	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, stock = ?, category = ?, images = ?, attributes = ?, updated_at = ?
		WHERE  id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.Stock, p.Category,
		images, attributes, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update product %q: %w", p.ID, err)
	}
	return requireAffected(res, "product", p.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %q: %w", id, err)
	}
	return requireAffected(res, "product", id)
}

func requireAffected(res sql.Result, kind, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected for %s %q: %w", kind, id, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "%s %s not found", kind, id)
	}
	return nil
}

func encodeJSONCols(p *domain.Product) (string, string, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return "", "", fmt.Errorf("sqlite: encode images: %w", err)
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return "", "", fmt.Errorf("sqlite: encode attributes: %w", err)
	}
	return string(imagesJSON), string(attrsJSON), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p          domain.Product
		images     string
		attributes string
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&images, &attributes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if err := json.Unmarshal([]byte(attributes), &p.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
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
