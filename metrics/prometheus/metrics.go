// Package prometheus exports rxform form metrics to Prometheus.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zoobzio/rxform"
)

// Metrics implements rxform.MetricsProvider with Prometheus collectors.
type Metrics struct {
	EventsTotal         *prometheus.CounterVec
	EventsRejectedTotal *prometheus.CounterVec
	FieldUpdatesTotal   *prometheus.CounterVec
	SubmitsTotal        *prometheus.CounterVec
	SubmitDuration      prometheus.Histogram
	SubmitErrors        prometheus.Histogram
	StateTransitions    *prometheus.CounterVec
}

// NewMetrics registers the collectors with registerer. A nil registerer uses
// prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxform_events_total",
				Help: "Total number of input events received",
			},
			[]string{"field"},
		),
		EventsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxform_events_rejected_total",
				Help: "Total number of input events that could not be normalized",
			},
			[]string{"field"},
		),
		FieldUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxform_field_updates_total",
				Help: "Total number of field updates applied to the store",
			},
			[]string{"field", "valid"},
		),
		SubmitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxform_submits_total",
				Help: "Total number of submissions",
			},
			[]string{"result"}, // result: success, failure
		),
		SubmitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rxform_submit_duration_seconds",
				Help:    "Submission processing duration in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
			},
		),
		SubmitErrors: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rxform_submit_field_errors",
				Help:    "Number of field errors of rejected submissions",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
		StateTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rxform_state_transitions_total",
				Help: "Total number of submission state transitions",
			},
			[]string{"from", "to"},
		),
	}
}

func (m *Metrics) OnEventReceived(field string) {
	m.EventsTotal.WithLabelValues(field).Inc()
}

func (m *Metrics) OnEventRejected(field string) {
	m.EventsRejectedTotal.WithLabelValues(field).Inc()
}

func (m *Metrics) OnFieldUpdated(field string, valid bool) {
	m.FieldUpdatesTotal.WithLabelValues(field, strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) OnSubmitSuccess(d time.Duration) {
	m.SubmitsTotal.WithLabelValues("success").Inc()
	m.SubmitDuration.Observe(d.Seconds())
}

func (m *Metrics) OnSubmitFailure(errorCount int, d time.Duration) {
	m.SubmitsTotal.WithLabelValues("failure").Inc()
	m.SubmitDuration.Observe(d.Seconds())
	m.SubmitErrors.Observe(float64(errorCount))
}

func (m *Metrics) OnStateChange(from, to rxform.SubmitState) {
	m.StateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

var _ rxform.MetricsProvider = (*Metrics)(nil)
