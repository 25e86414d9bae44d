package otelmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/rxform"
	"github.com/zoobzio/rxform/memdom"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestMetrics_New(t *testing.T) {
	m, err := New(noop.NewMeterProvider().Meter("rxform"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	m.OnEventReceived("email")
	m.OnEventRejected("terms")
	m.OnFieldUpdated("email", true)
	m.OnSubmitSuccess(time.Millisecond)
	m.OnSubmitFailure(1, time.Millisecond)
	m.OnStateChange(rxform.SubmitIdle, rxform.SubmitSubmitted)
}

func TestMetrics_WiredIntoForm(t *testing.T) {
	m, err := New(noop.NewMeterProvider().Meter("rxform"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var submitted rxform.SubmitValues
	form, err := rxform.Wrap(rxform.Fields{"name": {}}, nil,
		rxform.WithSyncMode(),
		rxform.WithMetrics(m),
	).Instance(nil, rxform.Handlers{
		OnSubmit: func(v rxform.SubmitValues) { submitted = v },
	})
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}

	dom := memdom.New()
	name := dom.Input(rxform.KindText, "name")
	if err := form.Mount(context.Background(), dom); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer form.Unmount()

	dom.Type(name, "ada")
	dom.Submit()

	if submitted["name"] != "ada" {
		t.Errorf("expected name ada, got %v", submitted["name"])
	}
}
