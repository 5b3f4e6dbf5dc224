// Package sqlite persists the order aggregate. The order row and its item
// rows are written inside one transaction, so a failed creation leaves no
// partial aggregate behind.
//
// modernc.org/sqlite is used instead of a CGO driver so the service builds
// in plain Alpine containers. WAL mode keeps reads from blocking writes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ecommerce-platform/internal/order-service/app"
	"ecommerce-platform/internal/order-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    order_number     TEXT NOT NULL UNIQUE,
    client_id        TEXT NOT NULL,
    status           TEXT NOT NULL,
    total            REAL NOT NULL,
    shipping_address TEXT NOT NULL,
    payment_id       TEXT NOT NULL DEFAULT '',
    invoice_id       TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_client_id ON orders(client_id);
CREATE INDEX IF NOT EXISTS idx_orders_status    ON orders(status);

CREATE TABLE IF NOT EXISTS order_items (
    id         TEXT PRIMARY KEY,
    order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL,
    quantity   INTEGER NOT NULL,
    price      REAL NOT NULL,
    total      REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Repository is the SQLite implementation of app.Repository.
type Repository struct {
	db *sql.DB
}

var _ app.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error { return r.db.Close() }

// Create inserts the order and all of its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin create order: %w", err)
	}
	defer tx.Rollback()

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("sqlite: encode shipping address: %w", err)
	}

	const insertOrder = `
		INSERT INTO orders (id, order_number, client_id, status, total, shipping_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertOrder,
		order.ID, order.OrderNumber, order.ClientID, string(order.Status),
		order.Total, string(address), formatTime(order.CreatedAt), formatTime(order.UpdatedAt),
	); err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", order.ID, err)
	}

	const insertItem = `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, total)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			item.ID, order.ID, item.ProductID, item.Quantity, item.Price, item.Total,
		); err != nil {
			return fmt.Errorf("sqlite: insert order item %q: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", order.ID, err)
	}
	return nil
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, order_number, client_id, status, total, shipping_address, payment_id, invoice_id, created_at, updated_at
		FROM   orders
		WHERE  id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find order %q: %w", id, err)
	}

	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// Find lists orders matching the filter, newest first. Filter fields
// combine conjunctively; empty fields are unconstrained.
func (r *Repository) Find(ctx context.Context, filter app.Filter) ([]domain.Order, error) {
	q := `SELECT id, order_number, client_id, status, total, shipping_address, payment_id, invoice_id, created_at, updated_at FROM orders`
	var (
		conds []string
		args  []any
	)
	if filter.ClientID != "" {
		conds = append(conds, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus overwrites the status column. Missing rows map to NotFound.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, "order %s not found", id)
	}
	return nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT id, product_id, quantity, price, total
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY rowid`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for order %q: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, fmt.Errorf("sqlite: scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		status    string
		address   string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&order.ID, &order.OrderNumber, &order.ClientID, &status, &order.Total,
		&address, &order.PaymentID, &order.InvoiceID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	order.Status = domain.Status(status)
	if err := json.Unmarshal([]byte(address), &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}

	var err error
	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if order.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}

// SQLite has no native datetime type; timestamps are stored as RFC3339 TEXT.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
