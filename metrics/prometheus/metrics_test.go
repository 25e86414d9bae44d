package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zoobzio/rxform"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.OnEventReceived("email")
	m.OnEventReceived("email")
	m.OnEventRejected("terms")
	m.OnFieldUpdated("email", false)
	m.OnFieldUpdated("email", true)
	m.OnSubmitFailure(2, time.Millisecond)
	m.OnSubmitSuccess(time.Millisecond)
	m.OnStateChange(rxform.SubmitIdle, rxform.SubmitSubmitted)

	if got := testutil.ToFloat64(m.EventsTotal.WithLabelValues("email")); got != 2 {
		t.Errorf("expected 2 events, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsRejectedTotal.WithLabelValues("terms")); got != 1 {
		t.Errorf("expected 1 rejected event, got %v", got)
	}
	if got := testutil.ToFloat64(m.FieldUpdatesTotal.WithLabelValues("email", "true")); got != 1 {
		t.Errorf("expected 1 valid update, got %v", got)
	}
	if got := testutil.ToFloat64(m.SubmitsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("expected 1 failed submit, got %v", got)
	}
	if got := testutil.ToFloat64(m.SubmitsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 successful submit, got %v", got)
	}
	if got := testutil.ToFloat64(m.StateTransitions.WithLabelValues("idle", "submitted")); got != 1 {
		t.Errorf("expected 1 transition, got %v", got)
	}
	if got := testutil.CollectAndCount(m.SubmitDuration); got != 1 {
		t.Errorf("expected 1 duration series, got %d", got)
	}
}

func TestMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering twice")
		}
	}()
	NewMetrics(reg)
}
