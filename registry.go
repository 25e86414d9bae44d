package rxform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultRegistryDebounce is the default debounce of document reloads.
const DefaultRegistryDebounce = 100 * time.Millisecond

// Processor identities of the document load chain.
var (
	loadID         = pipz.NewIdentity("rxform:load", "Definition document load")
	loadDecodeID   = pipz.NewIdentity("rxform:load:decode", "Decode document bytes")
	loadValidateID = pipz.NewIdentity("rxform:load:validate", "Validate document")
	loadApplyID    = pipz.NewIdentity("rxform:load:apply", "Deliver document to the change callback")
	loadStageID    = pipz.NewIdentity("rxform:load:stage", "Mark the apply stage")
	loadBackoffID  = pipz.NewIdentity("rxform:load:backoff", "Retry the change callback with backoff")
	loadTimeoutID  = pipz.NewIdentity("rxform:load:timeout", "Bound the change callback")
)

// Load stages, reported by the signal of a failed load.
const (
	stageDecode   = "decode"
	stageValidate = "validate"
	stageApply    = "apply"
)

type loadRequest struct {
	raw   []byte
	doc   *Document
	stage string
}

// Registry watches a source of definition documents and keeps the latest
// valid one. A rejected document leaves the previous one active.
//
// Example:
//
//	reg := rxform.NewRegistry(rxform.NewFileWatcher("signup.yaml")).
//	    Debounce(250 * time.Millisecond)
//	if err := reg.Start(ctx); err != nil {
//	    log.Printf("initial document rejected: %v", err)
//	}
//	signup, err := reg.Decorator(rxform.ComponentFunc(render))
type Registry struct {
	watcher     Watcher
	debounce    time.Duration
	syncMode    bool
	clock       clockz.Clock
	codec       Codec
	historySize int
	onChange    func(*Document) error
	onStop      func(RegistryState)

	applyAttempts int
	applyBackoff  time.Duration
	applyTimeout  time.Duration

	state     atomic.Int32
	current   atomic.Pointer[Document]
	lastError atomic.Pointer[error]

	mu      sync.Mutex
	started bool
	history []error
	load    pipz.Chainable[*loadRequest]

	// sync mode only
	changes <-chan []byte
}

// NewRegistry creates a registry over a watcher.
func NewRegistry(watcher Watcher) *Registry {
	r := &Registry{
		watcher:  watcher,
		debounce: DefaultRegistryDebounce,
		clock:    clockz.RealClock,
		codec:    AutoCodec{},
	}
	r.state.Store(int32(RegistryLoading))
	return r
}

// Debounce sets how long changes must settle before a reload.
func (r *Registry) Debounce(d time.Duration) *Registry {
	r.debounce = d
	return r
}

// SyncMode processes changes only on Process calls, without a goroutine or
// debounce. For tests.
func (r *Registry) SyncMode() *Registry {
	r.syncMode = true
	return r
}

// Clock sets the clock of the debounce timer.
func (r *Registry) Clock(clock clockz.Clock) *Registry {
	r.clock = clock
	return r
}

// Codec sets the document codec. Default: AutoCodec.
func (r *Registry) Codec(codec Codec) *Registry {
	r.codec = codec
	return r
}

// ErrorHistorySize keeps the last n load errors. Zero disables the history.
func (r *Registry) ErrorHistorySize(n int) *Registry {
	r.historySize = n
	return r
}

// OnChange sets a callback run before a document becomes active. An error
// rejects the document.
func (r *Registry) OnChange(fn func(*Document) error) *Registry {
	r.onChange = fn
	return r
}

// ApplyBackoff retries a failing OnChange callback up to attempts times,
// doubling the pause from base after each failure.
func (r *Registry) ApplyBackoff(attempts int, base time.Duration) *Registry {
	r.applyAttempts = attempts
	r.applyBackoff = base
	return r
}

// ApplyTimeout fails the apply stage when OnChange runs longer than d. The
// callback itself is not interrupted.
func (r *Registry) ApplyTimeout(d time.Duration) *Registry {
	r.applyTimeout = d
	return r
}

// OnStop sets a callback run with the final state when watching stops.
func (r *Registry) OnStop(fn func(RegistryState)) *Registry {
	r.onStop = fn
	return r
}

// State returns the current state.
func (r *Registry) State() RegistryState {
	return RegistryState(r.state.Load())
}

// Current returns the active document, or false if none was accepted yet.
func (r *Registry) Current() (*Document, bool) {
	doc := r.current.Load()
	return doc, doc != nil
}

// LastError returns the error of the last load, nil after a success.
func (r *Registry) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the retained load errors, oldest first.
func (r *Registry) ErrorHistory() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return nil
	}
	out := make([]error, len(r.history))
	copy(out, r.history)
	return out
}

// Decorator wraps a component with the fields and options of the active
// document. Options passed here apply after the document's.
func (r *Registry) Decorator(comp Component, opts ...Option) (*Decorator, error) {
	doc, ok := r.Current()
	if !ok {
		return nil, ErrNoDocument
	}
	fields, err := doc.Definitions()
	if err != nil {
		return nil, err
	}
	return Wrap(fields, comp, append(doc.Options(), opts...)...), nil
}

// Start begins watching. It blocks until the first document is processed and
// returns its load error, if any; watching continues either way. In sync mode
// later documents are processed by Process.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errors.New("registry already started")
	}
	r.started = true
	r.load = r.newLoadChain()
	r.mu.Unlock()

	capitan.Emit(ctx, RegistryStarted, KeyDebounce.Field(r.debounce))

	changes, err := r.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial document")
		}
		initialErr = r.process(ctx, raw)
	}

	if r.syncMode {
		r.changes = changes
		return initialErr
	}

	go r.watch(ctx, changes)
	return initialErr
}

// Process loads the next available document. Sync mode only. It reports
// whether a document was read.
func (r *Registry) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}
	select {
	case raw, ok := <-r.changes:
		if !ok {
			return false
		}
		_ = r.process(ctx, raw) //nolint:errcheck // recorded in LastError
		return true
	default:
		return false
	}
}

func (r *Registry) newLoadChain() pipz.Chainable[*loadRequest] {
	return pipz.NewSequence(loadID,
		pipz.Apply(loadDecodeID, func(_ context.Context, req *loadRequest) (*loadRequest, error) {
			req.stage = stageDecode
			var doc Document
			if err := r.codec.Unmarshal(req.raw, &doc); err != nil {
				return req, fmt.Errorf("decode %s: %w", r.codec.ContentType(), err)
			}
			req.doc = &doc
			return req, nil
		}),
		pipz.Apply(loadValidateID, func(_ context.Context, req *loadRequest) (*loadRequest, error) {
			req.stage = stageValidate
			return req, req.doc.Validate()
		}),
		pipz.Transform(loadStageID, func(_ context.Context, req *loadRequest) *loadRequest {
			req.stage = stageApply
			return req
		}),
		r.applyStage(),
	)
}

// applyStage runs OnChange, wrapped in the configured backoff and timeout.
func (r *Registry) applyStage() pipz.Chainable[*loadRequest] {
	var apply pipz.Chainable[*loadRequest] = pipz.Apply(loadApplyID, func(_ context.Context, req *loadRequest) (*loadRequest, error) {
		if r.onChange == nil {
			return req, nil
		}
		return req, r.onChange(req.doc)
	})
	if r.applyAttempts > 1 {
		apply = pipz.NewBackoff(loadBackoffID, apply, r.applyAttempts, r.applyBackoff)
	}
	if r.applyTimeout > 0 {
		apply = pipz.NewTimeout(loadTimeoutID, apply, r.applyTimeout)
	}
	return apply
}

func (r *Registry) process(ctx context.Context, raw []byte) error {
	old := r.State()

	req := &loadRequest{raw: raw}
	if _, err := r.load.Process(ctx, req); err != nil {
		r.recordError(err)
		r.transition(ctx, old, r.failureState())

		sig := RegistryApplyFailed
		switch req.stage {
		case stageDecode:
			sig = RegistryDecodeFailed
		case stageValidate:
			sig = RegistryValidationFailed
		}
		capitan.Emit(ctx, sig, KeyError.Field(err.Error()))
		return fmt.Errorf("%s failed: %w", req.stage, err)
	}

	r.current.Store(req.doc)
	r.lastError.Store(nil)
	r.transition(ctx, old, RegistryHealthy)
	capitan.Emit(ctx, RegistryApplySucceeded, KeyFieldCount.Field(len(req.doc.Fields)))
	return nil
}

func (r *Registry) failureState() RegistryState {
	if r.current.Load() == nil {
		return RegistryEmpty
	}
	return RegistryDegraded
}

func (r *Registry) transition(ctx context.Context, from, to RegistryState) {
	if from == to {
		return
	}
	r.state.Store(int32(to))
	capitan.Emit(ctx, RegistryStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
}

func (r *Registry) recordError(err error) {
	e := err
	r.lastError.Store(&e)

	if r.historySize <= 0 {
		return
	}
	r.mu.Lock()
	r.history = append(r.history, err)
	if over := len(r.history) - r.historySize; over > 0 {
		r.history = append(r.history[:0:0], r.history[over:]...)
	}
	r.mu.Unlock()
}

// watch reloads after the source goes quiet for the debounce duration.
func (r *Registry) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		final := r.State()
		capitan.Emit(context.WithoutCancel(ctx), RegistryStopped, KeyState.Field(final.String()))
		if r.onStop != nil {
			r.onStop(final)
		}
	}()

	var (
		timer   clockz.Timer
		pending []byte
		waiting bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if waiting {
					_ = r.process(ctx, pending) //nolint:errcheck // recorded in LastError
				}
				return
			}
			pending = raw
			waiting = true

			// A fresh timer per change; fake clocks drop fired timers.
			if timer != nil {
				timer.Stop()
			}
			timer = r.clock.NewTimer(r.debounce)

		case <-timerC:
			timer = nil
			if waiting {
				_ = r.process(ctx, pending) //nolint:errcheck // recorded in LastError
				waiting = false
			}
		}
	}
}
