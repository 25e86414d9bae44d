package rxform

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Component is the integrator's form component. Render is called with fresh
// props after every state change.
type Component interface {
	Render(props Props)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(props Props)

// Render calls fn(props).
func (fn ComponentFunc) Render(props Props) {
	fn(props)
}

// Props is what the wrapped component receives.
type Props struct {
	Valid     bool
	Submitted bool
	Dirty     bool

	// Fields holds the state of every field.
	Fields FormValues

	// SetValue updates fields without going through input events. Use it
	// for custom widgets that have no native input.
	SetValue func(values FormValues) error

	// External holds the properties passed by the owner.
	External External

	// ValueChanges subscribes to form value snapshots. Nil unless the
	// decorator was built WithValueChanges.
	ValueChanges func() (<-chan FormValues, func())
}

// Handlers are the integrator callbacks of a form instance.
type Handlers struct {
	// OnSubmit receives the clean values of an accepted submission.
	OnSubmit func(values SubmitValues)

	// OnError receives the field errors of a rejected submission. Optional.
	OnError func(errors FormErrors)
}

func (h Handlers) onSubmit(values SubmitValues) {
	if h.OnSubmit != nil {
		h.OnSubmit(values)
	}
}

func (h Handlers) onError(errs FormErrors) {
	if h.OnError != nil {
		h.OnError(errs)
	}
}

// Decorator wraps a component with form behavior. It is the factory of form
// instances; the definition table and options are shared by all of them.
type Decorator struct {
	fields Fields
	comp   Component
	cfg    config
}

// Wrap composes a component with the field definition table and options.
//
// Example:
//
//	signup := rxform.Wrap(rxform.Fields{
//	    "email":     {Validate: rxform.Rule("required,email", "enter a valid email")},
//	    "subscribe": {Value: false},
//	}, rxform.ComponentFunc(render), rxform.WithDebounce(200*time.Millisecond))
//
//	form, err := signup.Instance(nil, rxform.Handlers{OnSubmit: save})
//	if err != nil {
//	    return err
//	}
//	if err := form.Mount(ctx, dom); err != nil {
//	    return err
//	}
//	defer form.Unmount()
func Wrap(fields Fields, comp Component, opts ...Option) *Decorator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Decorator{fields: fields, comp: comp, cfg: cfg}
}

// Fields returns the definition table of the decorator.
func (d *Decorator) Fields() Fields {
	return d.fields
}

// Instance builds a form instance with its initial state. It fails with a
// *TypeMismatchError when a default does not resolve to a scalar.
func (d *Decorator) Instance(ext External, h Handlers) (*Form, error) {
	store, err := NewStore(d.fields, ext)
	if err != nil {
		return nil, err
	}

	f := &Form{
		id:       uuid.NewString(),
		fields:   d.fields,
		comp:     d.comp,
		cfg:      d.cfg,
		ext:      ext,
		handlers: h,
		store:    store,
		pipeline: newPipeline(d.cfg),
		changes:  newBroadcaster(d.cfg.changeBuffer),
		done:     make(chan struct{}),
	}
	f.submitChain = newSubmitChain(store)
	store.OnChange(f.stateChanged)

	p := f.pipeline
	p.current = store.Value
	p.deliver = f.applyDelta
	p.submit = f.runSubmit
	p.received = f.eventReceived
	p.rejected = f.eventRejected

	return f, nil
}

// Form is one live instance of a decorated component.
type Form struct {
	id          string
	fields      Fields
	comp        Component
	cfg         config
	ext         External
	handlers    Handlers
	store       *Store
	pipeline    *pipeline
	submitChain pipz.Chainable[*submission]
	changes     *broadcaster
	done        chan struct{}

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	removers  []func()
	mounted   bool
	unmounted bool
	looping   bool
}

// ID returns the instance id carried by every signal of this form.
func (f *Form) ID() string {
	return f.id
}

// State returns a snapshot of the form state.
func (f *Form) State() FormState {
	return f.store.Snapshot()
}

// HasError reports whether any field carries an error.
func (f *Form) HasError() bool {
	return f.store.HasError()
}

// Submitted reports whether the form was submitted.
func (f *Form) Submitted() bool {
	return f.store.Submitted()
}

// SubmitState returns the state of the submission pipeline.
func (f *Form) SubmitState() SubmitState {
	if f.store.Submitted() {
		return SubmitSubmitted
	}
	return SubmitIdle
}

// SetValue updates fields directly, bypassing the event pipeline. It does not
// revalidate.
func (f *Form) SetValue(values FormValues) error {
	if err := f.store.SetValue(values); err != nil {
		return err
	}
	for _, name := range values.Names() {
		capitan.Emit(f.context(), FormValueSet,
			KeyFormID.Field(f.id),
			KeyField.Field(name),
		)
	}
	return nil
}

// ValueChanges subscribes to form value snapshots published after every
// applied change. It returns a closed channel unless the decorator was built
// WithValueChanges.
func (f *Form) ValueChanges() (<-chan FormValues, func()) {
	if !f.cfg.valueChanges {
		ch := make(chan FormValues)
		close(ch)
		return ch, func() {}
	}
	return f.changes.subscribe()
}

// Submit triggers a submission as if the form element fired its submit event.
// It is processed after every event already received.
func (f *Form) Submit() error {
	f.mu.Lock()
	mounted, unmounted, ctx := f.mounted, f.unmounted, f.ctx
	f.mu.Unlock()

	switch {
	case unmounted:
		return ErrUnmounted
	case !mounted:
		return ErrNotMounted
	}
	f.pipeline.dispatch(ctx, pipelineInput{submit: true})
	return nil
}

// Props returns the props the component would render with now.
func (f *Form) Props() Props {
	return f.props(f.store.Snapshot())
}

// Render renders the component with the current props.
func (f *Form) Render() {
	if f.comp != nil {
		f.comp.Render(f.Props())
	}
}

// Done is closed once the loop goroutine of the form has exited after
// Unmount.
func (f *Form) Done() <-chan struct{} {
	return f.done
}

// Unmount tears the instance down: the store stops accepting writes, every
// DOM listener is removed, pending timers are dropped and value change
// subscribers are closed. It returns without waiting for the loop goroutine,
// so it may be called from inside a form callback; use Done to wait.
func (f *Form) Unmount() {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return
	}
	f.unmounted = true
	wasMounted := f.mounted
	removers := f.removers
	f.removers = nil
	cancel := f.cancel
	looping := f.looping
	ctx := f.ctx
	f.mu.Unlock()

	f.store.seal()
	if cancel != nil {
		cancel()
	}
	for _, remove := range removers {
		remove()
	}
	f.changes.close()
	if !looping {
		close(f.done)
	}

	if wasMounted {
		capitan.Emit(context.WithoutCancel(ctx), FormUnmounted, KeyFormID.Field(f.id))
	}
}

func (f *Form) props(snap FormState) Props {
	p := Props{
		Valid:     !snap.HasError(),
		Submitted: snap.Submitted,
		Dirty:     snap.Dirty,
		Fields:    snap.FormValue,
		SetValue:  f.SetValue,
		External:  f.ext,
	}
	if f.cfg.valueChanges {
		p.ValueChanges = f.ValueChanges
	}
	return p
}

// stateChanged is the store's change hook: it re-renders the component and
// publishes the snapshot.
func (f *Form) stateChanged(snap FormState) {
	f.mu.Lock()
	gone := f.unmounted
	f.mu.Unlock()
	if gone {
		return
	}

	if f.cfg.valueChanges {
		f.changes.publish(snap.FormValue)
	}
	if f.comp != nil {
		f.comp.Render(f.props(snap))
	}
}

func (f *Form) applyDelta(ctx context.Context, d Delta) {
	if !f.store.ApplyFieldUpdate(d) {
		return
	}
	st := f.store.Snapshot().FormValue[d.Field]
	capitan.Emit(ctx, FormFieldUpdated,
		KeyFormID.Field(f.id),
		KeyField.Field(d.Field),
		KeyError.Field(st.Error),
	)
	f.cfg.metrics.OnFieldUpdated(d.Field, st.Error == "")
}

func (f *Form) eventReceived(ctx context.Context, field string) {
	capitan.Emit(ctx, FormEventReceived,
		KeyFormID.Field(f.id),
		KeyField.Field(field),
	)
	f.cfg.metrics.OnEventReceived(field)
}

func (f *Form) eventRejected(ctx context.Context, field string, err error) {
	capitan.Emit(ctx, FormEventRejected,
		KeyFormID.Field(f.id),
		KeyField.Field(field),
		KeyError.Field(err.Error()),
	)
	f.cfg.metrics.OnEventRejected(field)
}

// context returns the mount context, or a background context before Mount.
func (f *Form) context() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(f.ctx)
}
