package rxform

import (
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default quiet period before a field update reaches
// the store.
const DefaultDebounce = 300 * time.Millisecond

// defaultChangeBuffer is the per-subscriber buffer of ValueChanges.
const defaultChangeBuffer = 16

// config holds the instance configuration shared by every form a Decorator
// builds.
type config struct {
	debounce     time.Duration
	throttle     time.Duration
	valueChanges bool
	changeBuffer int
	syncMode     bool
	sanitize     bool
	clock        clockz.Clock
	metrics      MetricsProvider
}

func defaultConfig() config {
	return config{
		debounce:     DefaultDebounce,
		changeBuffer: defaultChangeBuffer,
		clock:        clockz.RealClock,
		metrics:      NoOpMetricsProvider{},
	}
}

// Option configures a Decorator.
type Option func(*config)

// WithDebounce sets the quiet period a field must observe before its latest
// value is delivered to the store. Default: 300ms.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithThrottle sets the minimum spacing between two deliveries for the same
// field. A value arriving inside the window is held and delivered when the
// window closes. Default: 0, disabled.
func WithThrottle(d time.Duration) Option {
	return func(c *config) {
		c.throttle = d
	}
}

// WithValueChanges exposes a stream of form value snapshots to the component
// and through Form.ValueChanges.
func WithValueChanges() Option {
	return func(c *config) {
		c.valueChanges = true
	}
}

// WithChangeBuffer sets how many snapshots a slow ValueChanges subscriber may
// fall behind before older snapshots are dropped.
func WithChangeBuffer(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.changeBuffer = n
		}
	}
}

// WithSyncMode applies events in the goroutine that dispatches them, with no
// debounce or throttle. Use it for deterministic tests and terminal front-ends.
func WithSyncMode() Option {
	return func(c *config) {
		c.syncMode = true
	}
}

// WithClock sets the clock behind the debounce and throttle timers.
// Use clockz.FakeClock for deterministic timer tests.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMetrics sets a metrics provider.
func WithMetrics(provider MetricsProvider) Option {
	return func(c *config) {
		if provider != nil {
			c.metrics = provider
		}
	}
}

// WithSanitize strips markup from text-like values before they reach the
// store.
func WithSanitize() Option {
	return func(c *config) {
		c.sanitize = true
	}
}
