package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and
// returns its trace_id and span_id as hex strings. Both fields are
// empty when no span is active (e.g. in unit tests).
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry with trace info extracted from ctx.
func NewEntry(ctx context.Context, orderID string, status Status, step, detail string) *Entry {
	ti := ExtractTraceInfo(ctx)
	return &Entry{
		OrderID:   orderID,
		Status:    status,
		Step:      step,
		Detail:    detail,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		UpdatedAt: time.Now().UTC(),
	}
}
