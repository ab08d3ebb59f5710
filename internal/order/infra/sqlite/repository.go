// Package sqlite provides a SQLite-backed implementation of app.Repository.
//
// WAL mode is enabled on Open so readers never block the single writer —
// the event listener inserts orders while HTTP handlers read them.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/guitarshop/internal/order/domain"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// keeping Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// Line items are stored as a JSON TEXT column (snapshot, never joined);
// monetary values are stored as exact decimal strings, never REAL;
// timestamps are RFC3339 TEXT, the SQLite idiom.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id            TEXT PRIMARY KEY,
    customer_id   TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    first_name    TEXT NOT NULL DEFAULT '',
    last_name     TEXT NOT NULL DEFAULT '',
    address       TEXT NOT NULL DEFAULT '',
    city          TEXT NOT NULL DEFAULT '',
    country       TEXT NOT NULL DEFAULT '',
    postal_code   TEXT NOT NULL DEFAULT '',
    items         TEXT NOT NULL DEFAULT '[]',
    subtotal      TEXT NOT NULL DEFAULT '0',
    shipping_cost TEXT NOT NULL DEFAULT '0',
    total         TEXT NOT NULL DEFAULT '0',
    status        TEXT NOT NULL,
    checkout_ref  TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Backstop for checkout-event dedup: one order per upstream checkout.
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_checkout_ref
    ON orders(checkout_ref) WHERE checkout_ref <> '';
`

const orderColumns = `id, customer_id, email, first_name, last_name, address, city,
    country, postal_code, items, subtotal, shipping_cost, total, status,
    checkout_ref, created_at, updated_at`

// Repository is the SQLite implementation of app.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers; busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
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

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Insert(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("sqlite: encode items of %q: %w", order.ID, err)
	}

	const q = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		order.ID,
		order.CustomerID,
		order.Email,
		order.FirstName,
		order.LastName,
		order.Address,
		order.City,
		order.Country,
		order.PostalCode,
		string(items),
		order.Subtotal.String(),
		order.Shipping.String(),
		order.Total.String(),
		string(order.Status),
		order.CheckoutRef,
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", order.ID, err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q,
		string(order.Status), formatTime(order.UpdatedAt), order.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update order %q: %w", order.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`
	return r.query(ctx, q)
}

func (r *Repository) FindByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = ? ORDER BY created_at DESC`
	return r.query(ctx, q, customerID)
}

func (r *Repository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
		WHERE status = ? ORDER BY created_at`
	return r.query(ctx, q, string(status))
}

func (r *Repository) FindByCheckoutRef(ctx context.Context, ref string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE checkout_ref = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, ref))
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate orders: %w", err)
	}
	return orders, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row *sql.Row) (*domain.Order, error) {
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                     domain.Order
		items                     string
		subtotal, shipping, total string
		status                    string
		createdAt, updatedAt      string
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.Email,
		&order.FirstName,
		&order.LastName,
		&order.Address,
		&order.City,
		&order.Country,
		&order.PostalCode,
		&items,
		&subtotal,
		&shipping,
		&total,
		&status,
		&order.CheckoutRef,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("sqlite: decode items of %q: %w", order.ID, err)
	}
	if order.Subtotal, err = parseDecimal(subtotal); err != nil {
		return nil, fmt.Errorf("sqlite: order %q subtotal: %w", order.ID, err)
	}
	if order.Shipping, err = parseDecimal(shipping); err != nil {
		return nil, fmt.Errorf("sqlite: order %q shipping_cost: %w", order.ID, err)
	}
	if order.Total, err = parseDecimal(total); err != nil {
		return nil, fmt.Errorf("sqlite: order %q total: %w", order.ID, err)
	}
	order.Status = domain.Status(status)
	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: order %q created_at: %w", order.ID, err)
	}
	if order.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("sqlite: order %q updated_at: %w", order.ID, err)
	}
	return &order, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// formatTime renders a fixed-width timestamp so the stored TEXT sorts
// lexicographically in chronological order. A trimming layout (.999999999)
// would drop trailing zeros and break ORDER BY created_at for sub-second
// neighbors ("...00.5Z" sorts after "...00.500000001Z").
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
