// Package orderlog defines the durable audit trail of a checkout run.
//
// Every order placement appends one row per state transition. The log
// serves two purposes:
//
//  1. Forensics: after a failure you can tell exactly how far an order
//     got — in particular whether the payment had already been captured
//     — and correlate it with the distributed trace via trace_id.
//
//  2. Recovery: a reconciler can scan for orders whose last entry is
//     not COMPLETED and resume or refund them after a crash.
package orderlog

import "time"

// Status is the lifecycle state of a checkout execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the order_logs table: a point-in-time
// snapshot of a checkout execution.
type Entry struct {
	// OrderID identifies the checkout run; joins with business data.
	OrderID string

	// Status is the lifecycle state at the time this row was written.
	Status Status

	// Step is the pipeline step that just executed or failed
	// (e.g. "charge", "quote_shipping").
	Step string

	// Detail carries failure text; empty on success rows.
	Detail string

	// TraceID is the W3C trace ID of the active OpenTelemetry span, so
	// a log row links straight to the full distributed trace.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// UpdatedAt is the wall-clock time of this entry.
	UpdatedAt time.Time
}
