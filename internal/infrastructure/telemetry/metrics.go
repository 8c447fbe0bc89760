package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Metric attribute keys
var (
	AttrMovementType = attribute.Key("movement_type")
)

// Counter is a helper for creating and recording counter metrics.
// Counters represent monotonically increasing values.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by the given value with optional attributes.
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1 with optional attributes.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// LedgerMetrics counts ledger activity.
// All methods are safe to call on a nil receiver, which records nothing.
type LedgerMetrics struct {
	movementsTotal       *Counter
	movementLinesTotal   *Counter
	lotMissesTotal       *Counter
	reconciliationsTotal *Counter
	adjustmentsTotal     *Counter
	skippedLinesTotal    *Counter
}

// NewLedgerMetrics registers the ledger counters on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	counters := []struct {
		name        string
		description string
		unit        string
	}{
		{"ledger_movements_total", "Issue and receive operations committed", "{movements}"},
		{"ledger_movement_lines_total", "Line items applied by issue and receive", "{lines}"},
		{"ledger_lot_misses_total", "Issue lines whose expiry lot did not exist", "{lines}"},
		{"ledger_reconciliations_total", "Physical inventory documents committed", "{documents}"},
		{"ledger_adjustments_total", "System adjustment entries posted by reconciliation", "{transactions}"},
		{"ledger_reconciliation_skipped_lines_total", "Count lines with no difference from expected", "{lines}"},
	}

	m := &LedgerMetrics{}
	targets := []**Counter{
		&m.movementsTotal,
		&m.movementLinesTotal,
		&m.lotMissesTotal,
		&m.reconciliationsTotal,
		&m.adjustmentsTotal,
		&m.skippedLinesTotal,
	}
	for i, def := range counters {
		c, err := NewCounter(meter, def.name, def.description, def.unit)
		if err != nil {
			return nil, err
		}
		*targets[i] = c
	}
	return m, nil
}

// RecordMovement counts one committed issue or receive and its lines
func (m *LedgerMetrics) RecordMovement(ctx context.Context, movementType string, lines int) {
	if m == nil {
		return
	}
	attr := AttrMovementType.String(movementType)
	m.movementsTotal.Inc(ctx, attr)
	m.movementLinesTotal.Add(ctx, int64(lines), attr)
}

// RecordLotMisses counts issue lines that found no expiry lot
func (m *LedgerMetrics) RecordLotMisses(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.lotMissesTotal.Add(ctx, int64(n))
}

// RecordReconciliation counts one committed count document
func (m *LedgerMetrics) RecordReconciliation(ctx context.Context, adjustments, skippedLines int) {
	if m == nil {
		return
	}
	m.reconciliationsTotal.Inc(ctx)
	m.adjustmentsTotal.Add(ctx, int64(adjustments))
	m.skippedLinesTotal.Add(ctx, int64(skippedLines))
}
