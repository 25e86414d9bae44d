package rxform

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.debounce != DefaultDebounce {
		t.Errorf("expected debounce %v, got %v", DefaultDebounce, cfg.debounce)
	}
	if cfg.throttle != 0 {
		t.Errorf("expected throttle disabled, got %v", cfg.throttle)
	}
	if cfg.changeBuffer != defaultChangeBuffer {
		t.Errorf("expected change buffer %d, got %d", defaultChangeBuffer, cfg.changeBuffer)
	}
	if cfg.valueChanges || cfg.syncMode || cfg.sanitize {
		t.Errorf("expected optional behaviour off, got %+v", cfg)
	}
	if cfg.clock != clockz.RealClock {
		t.Error("expected real clock")
	}
	if _, ok := cfg.metrics.(NoOpMetricsProvider); !ok {
		t.Errorf("expected no-op metrics, got %T", cfg.metrics)
	}
}

func TestOptions_Apply(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := Wrap(Fields{}, nil,
		WithDebounce(50*time.Millisecond),
		WithThrottle(time.Second),
		WithValueChanges(),
		WithChangeBuffer(4),
		WithSyncMode(),
		WithSanitize(),
		WithClock(clock),
	)

	cfg := d.cfg
	if cfg.debounce != 50*time.Millisecond {
		t.Errorf("expected debounce 50ms, got %v", cfg.debounce)
	}
	if cfg.throttle != time.Second {
		t.Errorf("expected throttle 1s, got %v", cfg.throttle)
	}
	if !cfg.valueChanges || !cfg.syncMode || !cfg.sanitize {
		t.Errorf("expected flags set, got %+v", cfg)
	}
	if cfg.changeBuffer != 4 {
		t.Errorf("expected change buffer 4, got %d", cfg.changeBuffer)
	}
	if cfg.clock != clock {
		t.Error("expected fake clock")
	}
}

func TestOptions_IgnoreInvalidValues(t *testing.T) {
	d := Wrap(Fields{}, nil,
		WithChangeBuffer(0),
		WithChangeBuffer(-3),
		WithClock(nil),
		WithMetrics(nil),
	)

	if d.cfg.changeBuffer != defaultChangeBuffer {
		t.Errorf("expected default change buffer, got %d", d.cfg.changeBuffer)
	}
	if d.cfg.clock == nil {
		t.Error("expected clock kept")
	}
	if d.cfg.metrics == nil {
		t.Error("expected metrics kept")
	}
}

func TestOptions_LaterWins(t *testing.T) {
	d := Wrap(Fields{}, nil, WithDebounce(time.Second), WithDebounce(0))
	if d.cfg.debounce != 0 {
		t.Errorf("expected debounce 0, got %v", d.cfg.debounce)
	}
}

func TestOptions_InstancesShareConfig(t *testing.T) {
	d := Wrap(Fields{"name": {}}, nil, WithThrottle(200*time.Millisecond))

	a, err := d.Instance(nil, Handlers{})
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}
	b, err := d.Instance(nil, Handlers{})
	if err != nil {
		t.Fatalf("Instance failed: %v", err)
	}
	if a.pipeline.throttle != b.pipeline.throttle || a.pipeline.throttle != 200*time.Millisecond {
		t.Errorf("expected both instances throttled at 200ms, got %v and %v", a.pipeline.throttle, b.pipeline.throttle)
	}
	if a.ID() == b.ID() {
		t.Error("expected distinct instance ids")
	}
}
