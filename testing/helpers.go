// Package testing provides test utilities for rxform forms, wizards and
// registries.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/rxform"
	"github.com/zoobzio/rxform/memdom"
)

// SignupFields is a standard definition table: an email, a password with its
// confirmation and a terms checkbox.
func SignupFields() rxform.Fields {
	return rxform.Fields{
		"email":    {Validate: rxform.Rule("required,email", "enter a valid email")},
		"password": {Validate: rxform.Rule("required,min=8", "at least 8 characters")},
		"confirm":  {Validate: rxform.EqualTo("password", "passwords differ")},
		"terms":    {Value: false},
	}
}

// SignupDOM builds the document matching SignupFields and returns it with its
// elements keyed by name.
func SignupDOM() (*memdom.Document, map[string]*memdom.Element) {
	dom := memdom.New()
	els := map[string]*memdom.Element{
		"email":    dom.Input(rxform.KindEmail, "email"),
		"password": dom.Input(rxform.KindPassword, "password"),
		"confirm":  dom.Input(rxform.KindPassword, "confirm"),
		"terms":    dom.Input(rxform.KindCheckbox, "terms"),
	}
	return dom, els
}

// Recorder captures the callbacks of a form or wizard.
type Recorder struct {
	mu      sync.Mutex
	submits []rxform.SubmitValues
	errors  []rxform.FormErrors
}

// Handlers returns handlers that record into r.
func (r *Recorder) Handlers() rxform.Handlers {
	return rxform.Handlers{
		OnSubmit: func(v rxform.SubmitValues) {
			r.mu.Lock()
			r.submits = append(r.submits, v)
			r.mu.Unlock()
		},
		OnError: func(e rxform.FormErrors) {
			r.mu.Lock()
			r.errors = append(r.errors, e)
			r.mu.Unlock()
		},
	}
}

// Submits returns the number of OnSubmit calls.
func (r *Recorder) Submits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submits)
}

// LastSubmit returns the values of the last OnSubmit call.
func (r *Recorder) LastSubmit() rxform.SubmitValues {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.submits) == 0 {
		return nil
	}
	return r.submits[len(r.submits)-1]
}

// Errors returns the number of OnError calls.
func (r *Recorder) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// LastErrors returns the errors of the last OnError call.
func (r *Recorder) LastErrors() rxform.FormErrors {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errors) == 0 {
		return nil
	}
	return r.errors[len(r.errors)-1]
}

// MountForm builds an instance of d, mounts it on dom and unmounts it when
// the test ends.
func MountForm(t *testing.T, d *rxform.Decorator, dom rxform.DOM, h rxform.Handlers) *rxform.Form {
	t.Helper()
	form, err := d.Instance(nil, h)
	if err != nil {
		t.Fatalf("Instance() error = %v", err)
	}
	if err := form.Mount(context.Background(), dom); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	t.Cleanup(form.Unmount)
	return form
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the registry reaches the expected state or
// timeout occurs.
func WaitForState(t *testing.T, r *rxform.Registry, expected rxform.RegistryState, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.State() == expected
	})
}

// RequireState fails the test immediately if the registry is not in the
// expected state.
func RequireState(t *testing.T, r *rxform.Registry, expected rxform.RegistryState) {
	t.Helper()
	if got := r.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// NewTestRegistry creates a sync-mode registry fed by the returned channel.
func NewTestRegistry(t *testing.T) (*rxform.Registry, chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	r := rxform.NewRegistry(rxform.NewSyncChannelWatcher(ch)).SyncMode()
	return r, ch
}
