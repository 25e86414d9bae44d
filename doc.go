/*
Package rxform binds HTML-like forms to a reactive form state.

A form is a component wrapped with a field definition table. Every named
input and select under the form root becomes a field: its events are merged
into one ordered stream, normalized into single-field deltas, gated per field
through debounce and throttle, validated and folded into a FormState. The
component re-renders after every change and the submit event delivers either
the clean values or the field errors.

# Basic Usage

Declare the fields and wrap the component:

	signup := rxform.Wrap(rxform.Fields{
	    "email":    {Validate: rxform.Rule("required,email", "enter a valid email")},
	    "password": {Validate: rxform.Rule("required,min=8", "")},
	    "confirm":  {Validate: rxform.EqualTo("password", "passwords differ")},
	    "terms":    {Value: false},
	}, rxform.ComponentFunc(render))

Build an instance and mount it on a DOM:

	form, err := signup.Instance(nil, rxform.Handlers{
	    OnSubmit: func(v rxform.SubmitValues) { save(v) },
	    OnError:  func(e rxform.FormErrors) { show(e) },
	})
	if err != nil {
	    return err
	}
	if err := form.Mount(ctx, dom); err != nil {
	    return err // *ConfigurationError, *TypeMismatchError, ErrNoFormRoot
	}
	defer form.Unmount()

The memdom package provides an in-memory DOM for tests and terminal
front-ends.

# Fields

Each definition has a default Value (a scalar or a ValueFunc of the owner's
External properties), an optional Validator and an External flag for fields
with no native input. Defaults that are not Empty make the field dirty from
the start. Validators see the candidate value, the form values before the
update and the External properties; Rule, EqualTo and All build them from
go-playground/validator tags.

At mount time the named inputs and the definitions must match exactly,
except External fields which never need an input. A mismatch fails with a
*ConfigurationError listing both sides.

# Timing

WithDebounce (default 300ms) and WithThrottle apply per field, so typing in
one input never delays another. A submit flushes every pending delta first,
so the submitted values include the latest input. WithSyncMode drops both
and processes events on the calling goroutine, for deterministic tests;
WithClock with a clockz.FakeClock controls the timers otherwise.

# Submission

The first successful submission moves the form to submitted and calls
OnSubmit once. A submission with any field error calls OnError with the
messages and leaves the form idle. Later submissions are ignored.

# Wizards

NewWizard sequences several decorators. Each step's submission merges its
values into an accumulator and advances the cursor; the last one delivers
the accumulated values to the wizard's OnSubmit exactly once.

# Definition Documents

Forms can also be declared in YAML or JSON documents, decoded into a
Document and validated. A Registry watches a document source (a
FileWatcher or ChannelWatcher) and keeps the latest valid document:

	reg := rxform.NewRegistry(rxform.NewFileWatcher("signup.yaml"))
	if err := reg.Start(ctx); err != nil {
	    return err
	}
	signup, err := reg.Decorator(rxform.ComponentFunc(render))

# Observability

Every lifecycle transition is emitted as a capitan signal carrying the form
id (see signals.go). Hook them for logging:

	capitan.Hook(rxform.FormSubmitFailed, func(ctx context.Context, e *capitan.Event) {
	    count, _ := rxform.KeyErrorCount.From(e)
	    log.Printf("submit rejected with %d errors", count)
	})

WithMetrics plugs a MetricsProvider; adapters for Prometheus and
OpenTelemetry live under metrics/.
*/
package rxform
