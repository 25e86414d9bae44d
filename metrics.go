package rxform

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus or
// OpenTelemetry. Implement it to receive callbacks on form events.
type MetricsProvider interface {
	// OnEventReceived is called when a bound input fires.
	OnEventReceived(field string)

	// OnEventRejected is called when an input event cannot be normalized.
	OnEventRejected(field string)

	// OnFieldUpdated is called when a delta reaches the store. valid reports
	// whether the new value passed validation.
	OnFieldUpdated(field string, valid bool)

	// OnSubmitSuccess is called when a submission is accepted.
	OnSubmitSuccess(duration time.Duration)

	// OnSubmitFailure is called when a submission is rejected.
	OnSubmitFailure(errorCount int, duration time.Duration)

	// OnStateChange is called when the submission state changes.
	OnStateChange(from, to SubmitState)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnEventReceived(_ string)               {}
func (NoOpMetricsProvider) OnEventRejected(_ string)               {}
func (NoOpMetricsProvider) OnFieldUpdated(_ string, _ bool)        {}
func (NoOpMetricsProvider) OnSubmitSuccess(_ time.Duration)        {}
func (NoOpMetricsProvider) OnSubmitFailure(_ int, _ time.Duration) {}
func (NoOpMetricsProvider) OnStateChange(_, _ SubmitState)         {}
