// Package sqlite provides a SQLite-backed implementation of
// orderlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers: the
// checkout pipeline writes transitions while the order status endpoint
// may be reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/onlineboutique/checkout/internal/checkout/orderlog"

	// Pure-Go SQLite driver; no CGO, so Alpine/scratch images build clean.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is an immutable event in the order's lifecycle, and the row
// with MAX(updated_at) per order_id is the current state.
const schema = `
CREATE TABLE IF NOT EXISTS order_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier: the order ID generated by the orchestrator.
    -- Not UNIQUE because multiple rows exist per order (one per transition).
    order_id    TEXT NOT NULL,

    -- Lifecycle state at the time this row was written.
    status      TEXT NOT NULL,

    -- Pipeline step that just executed (e.g. "charge").
    step        TEXT NOT NULL DEFAULT '',

    -- Failure text; empty on success rows.
    detail      TEXT NOT NULL DEFAULT '',

    -- W3C trace_id / span_id from the active OTel span.
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_logs_order_id ON order_logs(order_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_order_logs_trace_id ON order_logs(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes pragmas as DSN query parameters. WAL
	// enables concurrent readers; busy_timeout waits on locks instead of
	// failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

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

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new order log entry. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_logs
			(order_id, status, step, detail, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Status),
		entry.Step,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order log for %q: %w", entry.OrderID, err)
	}
	return nil
}

// Latest returns the most recent log entry for an order. Backs the
// order status endpoint and crash recovery.
func (r *Repository) Latest(ctx context.Context, orderID string) (*orderlog.Entry, error) {
	const q = `
		SELECT order_id, status, step, detail, trace_id, span_id, updated_at
		FROM   order_logs
		WHERE  order_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, orderID)

	var entry orderlog.Entry
	var updatedAt string
	err := row.Scan(
		&entry.OrderID,
		&entry.Status,
		&entry.Step,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: order %q not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for %q: %w", orderID, err)
	}

	entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", updatedAt, err)
	}

	return &entry, nil
}
