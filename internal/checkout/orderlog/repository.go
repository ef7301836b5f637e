package orderlog

import "context"

// Repository is the port for persisting order log entries.
// The orchestrator depends on this abstraction, not on SQLite directly,
// so the implementation can be swapped for Postgres or an in-memory
// fake in tests.
type Repository interface {
	// Save appends a new log entry. The table is an append-only audit
	// log, never an upsert.
	Save(ctx context.Context, entry *Entry) error
}
