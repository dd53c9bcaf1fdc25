package todo

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/rezkam/quadrant/internal/application/todo"

type metrics struct {
	created   metric.Int64Counter
	generated metric.Int64Counter
	failures  metric.Int64Counter
}

func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	m := &metrics{}
	var err error
	if m.created, err = meter.Int64Counter("quadrant.tasks.created",
		metric.WithDescription("Tasks created through the store"),
		metric.WithUnit("{task}")); err != nil {
		otel.Handle(err)
		m.created = noop.Int64Counter{}
	}
	if m.generated, err = meter.Int64Counter("quadrant.occurrences.generated",
		metric.WithDescription("Recurring occurrences materialized by reconciliation"),
		metric.WithUnit("{task}")); err != nil {
		otel.Handle(err)
		m.generated = noop.Int64Counter{}
	}
	if m.failures, err = meter.Int64Counter("quadrant.persistence.failures",
		metric.WithDescription("Failed loads and saves against the repository"),
		metric.WithUnit("{error}")); err != nil {
		otel.Handle(err)
		m.failures = noop.Int64Counter{}
	}
	return m
}

func (m *metrics) persistenceFailure(ctx context.Context, op, key string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("key", key),
	))
}
