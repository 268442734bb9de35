package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts domain events. Its methods are safe on a nil receiver.
type BusinessMetrics struct {
	ledgerEntries      metric.Int64Counter
	idempotentReplays  metric.Int64Counter
	costCalculations   metric.Int64Counter
	costWarnings       metric.Int64Counter
	statusTransitions  metric.Int64Counter
	uploadedBytes      metric.Int64Histogram
	baselineSeededRows metric.Int64Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)
	if m.ledgerEntries, err = meter.Int64Counter("ledger.entries.recorded",
		metric.WithDescription("Ledger entries recorded"), metric.WithUnit("{entry}")); err != nil {
		return nil, err
	}
	if m.idempotentReplays, err = meter.Int64Counter("ledger.entries.replayed",
		metric.WithDescription("Ledger writes answered from an idempotency key"), metric.WithUnit("{entry}")); err != nil {
		return nil, err
	}
	if m.costCalculations, err = meter.Int64Counter("costing.calculations",
		metric.WithDescription("Shipment cost calculations"), metric.WithUnit("{calculation}")); err != nil {
		return nil, err
	}
	if m.costWarnings, err = meter.Int64Counter("costing.malformed_rates",
		metric.WithDescription("Requests skipped for a malformed rate breakdown"), metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	if m.statusTransitions, err = meter.Int64Counter("workflow.transitions",
		metric.WithDescription("Status transitions applied"), metric.WithUnit("{transition}")); err != nil {
		return nil, err
	}
	if m.uploadedBytes, err = meter.Int64Histogram("files.uploaded.size",
		metric.WithDescription("Size of uploaded files"), metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.baselineSeededRows, err = meter.Int64Counter("workflow.baseline.seeded",
		metric.WithDescription("Baseline statuses inserted"), metric.WithUnit("{status}")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *BusinessMetrics) LedgerEntryRecorded(ctx context.Context, operation, currency string) {
	if m == nil {
		return
	}
	m.ledgerEntries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation_type", operation),
		attribute.String("currency", currency),
	))
}

func (m *BusinessMetrics) LedgerEntryReplayed(ctx context.Context) {
	if m == nil {
		return
	}
	m.idempotentReplays.Add(ctx, 1)
}

func (m *BusinessMetrics) CostCalculated(ctx context.Context, requests, warnings int) {
	if m == nil {
		return
	}
	m.costCalculations.Add(ctx, 1, metric.WithAttributes(attribute.Int("requests", requests)))
	if warnings > 0 {
		m.costWarnings.Add(ctx, int64(warnings))
	}
}

func (m *BusinessMetrics) StatusTransitioned(ctx context.Context, kind, statusCode string) {
	if m == nil {
		return
	}
	m.statusTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", statusCode),
	))
}

func (m *BusinessMetrics) FileUploaded(ctx context.Context, entity string, size int64) {
	if m == nil {
		return
	}
	m.uploadedBytes.Record(ctx, size, metric.WithAttributes(attribute.String("entity", entity)))
}

func (m *BusinessMetrics) BaselineSeeded(ctx context.Context, inserted int) {
	if m == nil || inserted == 0 {
		return
	}
	m.baselineSeededRows.Add(ctx, int64(inserted))
}
