package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "timeclock"

// StartLifecycleSpan starts a span for a task lifecycle operation
// (start, stop, manual).
func StartLifecycleSpan(ctx context.Context, op, taskID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "lifecycle."+op,
		trace.WithAttributes(
			attribute.String("task.id", taskID),
		),
	)
}

// StartAggregationSpan starts a span for a statistics computation over
// the given window.
func StartAggregationSpan(ctx context.Context, kind string, from, to time.Time) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "stats."+kind,
		trace.WithAttributes(
			attribute.String("window.from", from.Format(time.RFC3339)),
			attribute.String("window.to", to.Format(time.RFC3339)),
		),
	)
}
