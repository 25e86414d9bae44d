package testing

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/rxform"
)

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		if !WaitFor(t, 100*time.Millisecond, func() bool { return true }) {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var ready atomic.Bool
		go func() {
			time.Sleep(20 * time.Millisecond)
			ready.Store(true)
		}()
		if !WaitFor(t, time.Second, ready.Load) {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		if WaitFor(t, 20*time.Millisecond, func() bool { return false }) {
			t.Error("expected WaitFor to return false")
		}
	})
}

func TestSignupFixtures(t *testing.T) {
	var rec Recorder
	dom, els := SignupDOM()
	form := MountForm(t, rxform.Wrap(SignupFields(), nil, rxform.WithSyncMode()), dom, rec.Handlers())

	dom.Type(els["email"], "ada@example.com")
	dom.Type(els["password"], "difference")
	dom.Type(els["confirm"], "difference")
	dom.Click(els["terms"])
	dom.Submit()

	if rec.Submits() != 1 {
		t.Fatalf("expected 1 submit, got %d (errors %v)", rec.Submits(), rec.LastErrors())
	}
	if got := rec.LastSubmit()["terms"]; got != true {
		t.Errorf("expected terms true, got %v", got)
	}
	if !form.Submitted() {
		t.Error("expected form submitted")
	}
}

func TestRecorder_Errors(t *testing.T) {
	var rec Recorder
	dom, _ := SignupDOM()
	MountForm(t, rxform.Wrap(SignupFields(), nil, rxform.WithSyncMode()), dom, rec.Handlers())

	dom.Submit()

	if rec.Errors() != 1 {
		t.Fatalf("expected 1 error callback, got %d", rec.Errors())
	}
	if rec.LastErrors()["email"] != "enter a valid email" {
		t.Errorf("unexpected errors: %v", rec.LastErrors())
	}
	if rec.LastSubmit() != nil {
		t.Error("expected no submit")
	}
}

func TestNewTestRegistry(t *testing.T) {
	r, ch := NewTestRegistry(t)
	ch <- []byte("fields:\n  - name: email\n")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	RequireState(t, r, rxform.RegistryHealthy)
	if !WaitForState(t, r, rxform.RegistryHealthy, 10*time.Millisecond) {
		t.Error("expected healthy")
	}
}
