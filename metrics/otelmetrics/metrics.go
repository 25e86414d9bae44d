// Package otelmetrics exports rxform form metrics through an OpenTelemetry
// meter.
package otelmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/rxform"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics implements rxform.MetricsProvider with OpenTelemetry instruments.
type Metrics struct {
	events         metric.Int64Counter
	rejected       metric.Int64Counter
	updates        metric.Int64Counter
	submits        metric.Int64Counter
	submitDuration metric.Float64Histogram
	transitions    metric.Int64Counter
}

// New creates the instruments on meter.
func New(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.events, err = meter.Int64Counter("rxform.events",
		metric.WithDescription("input events received")); err != nil {
		return nil, fmt.Errorf("create events counter: %w", err)
	}
	if m.rejected, err = meter.Int64Counter("rxform.events.rejected",
		metric.WithDescription("input events that could not be normalized")); err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	if m.updates, err = meter.Int64Counter("rxform.field.updates",
		metric.WithDescription("field updates applied to the store")); err != nil {
		return nil, fmt.Errorf("create updates counter: %w", err)
	}
	if m.submits, err = meter.Int64Counter("rxform.submits",
		metric.WithDescription("submissions")); err != nil {
		return nil, fmt.Errorf("create submits counter: %w", err)
	}
	if m.submitDuration, err = meter.Float64Histogram("rxform.submit.duration",
		metric.WithDescription("submission processing duration"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	if m.transitions, err = meter.Int64Counter("rxform.state.transitions",
		metric.WithDescription("submission state transitions")); err != nil {
		return nil, fmt.Errorf("create transitions counter: %w", err)
	}
	return &m, nil
}

func (m *Metrics) OnEventReceived(field string) {
	m.events.Add(context.Background(), 1, metric.WithAttributes(attribute.String("field", field)))
}

func (m *Metrics) OnEventRejected(field string) {
	m.rejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("field", field)))
}

func (m *Metrics) OnFieldUpdated(field string, valid bool) {
	m.updates.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("field", field),
		attribute.Bool("valid", valid),
	))
}

func (m *Metrics) OnSubmitSuccess(d time.Duration) {
	ctx := context.Background()
	result := metric.WithAttributes(attribute.String("result", "success"))
	m.submits.Add(ctx, 1, result)
	m.submitDuration.Record(ctx, d.Seconds(), result)
}

func (m *Metrics) OnSubmitFailure(errorCount int, d time.Duration) {
	ctx := context.Background()
	m.submits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", "failure"),
		attribute.Int("errors", errorCount),
	))
	m.submitDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("result", "failure")))
}

func (m *Metrics) OnStateChange(from, to rxform.SubmitState) {
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

var _ rxform.MetricsProvider = (*Metrics)(nil)
