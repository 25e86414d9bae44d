package rxform_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/rxform"
	"github.com/zoobzio/rxform/memdom"
	rxtesting "github.com/zoobzio/rxform/testing"
)

type wizardLog struct {
	mu    sync.Mutex
	props []rxform.WizardProps
}

func (l *wizardLog) Render(p rxform.WizardProps) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.props = append(l.props, p)
}

func (l *wizardLog) last() rxform.WizardProps {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.props[len(l.props)-1]
}

func twoSteps() []rxform.Step {
	return []rxform.Step{
		rxform.Wrap(rxform.Fields{"a": {Validate: rxform.Rule("required", "a is required")}}, nil, rxform.WithSyncMode()),
		rxform.Wrap(rxform.Fields{"b": {}}, nil, rxform.WithSyncMode()),
	}
}

// submitStep mounts the current step form on a fresh document, types value
// into its only field and submits.
func submitStep(t *testing.T, w *rxform.Wizard, field, value string) *rxform.Form {
	t.Helper()
	form, err := w.CurrentForm()
	if err != nil {
		t.Fatalf("CurrentForm() error = %v", err)
	}
	dom := memdom.New()
	el := dom.Input(rxform.KindText, field)
	if err := form.Mount(context.Background(), dom); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	dom.Type(el, value)
	dom.Submit()
	return form
}

func TestWizard_AccumulatesAndCompletes(t *testing.T) {
	var rec rxtesting.Recorder
	log := &wizardLog{}
	w, err := rxform.NewWizard(twoSteps(), log, nil, rec.Handlers())
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	defer w.Close()

	first := submitStep(t, w, "a", "1")
	if w.CurrentStep() != 1 {
		t.Fatalf("expected step 1, got %d", w.CurrentStep())
	}
	select {
	case <-first.Done():
	default:
		t.Error("expected first step form unmounted on advance")
	}
	if rec.Submits() != 0 {
		t.Fatal("expected no OnSubmit before the last step")
	}

	submitStep(t, w, "b", "2")

	if w.CurrentStep() != 1 {
		t.Errorf("expected cursor to stay on the last step, got %d", w.CurrentStep())
	}
	if !w.Submitted() {
		t.Error("expected wizard submitted")
	}
	if diff := cmp.Diff(rxform.SubmitValues{"a": "1", "b": "2"}, rec.LastSubmit()); diff != "" {
		t.Errorf("accumulated values mismatch (-want +got):\n%s", diff)
	}
	if rec.Submits() != 1 {
		t.Errorf("expected one OnSubmit, got %d", rec.Submits())
	}
	if p := log.last(); !p.Submitted || p.Steps != 2 || p.CurrentStep != 1 {
		t.Errorf("unexpected wizard props %+v", p)
	}
}

func TestWizard_StepErrorsForwarded(t *testing.T) {
	var rec rxtesting.Recorder
	w, err := rxform.NewWizard(twoSteps(), nil, nil, rec.Handlers())
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	defer w.Close()

	submitStep(t, w, "a", "")

	if w.CurrentStep() != 0 {
		t.Errorf("expected to stay on step 0, got %d", w.CurrentStep())
	}
	if rec.LastErrors()["a"] != "a is required" {
		t.Errorf("expected step error forwarded, got %v", rec.LastErrors())
	}
}

func TestWizard_GoTo(t *testing.T) {
	w, err := rxform.NewWizard(twoSteps(), nil, nil, rxform.Handlers{})
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	defer w.Close()

	form, _ := w.CurrentForm()
	if err := w.GoTo(1); err != nil {
		t.Fatalf("GoTo() error = %v", err)
	}
	if w.CurrentStep() != 1 {
		t.Errorf("expected step 1, got %d", w.CurrentStep())
	}
	if err := form.Submit(); !errors.Is(err, rxform.ErrUnmounted) {
		t.Errorf("expected previous form unmounted, got %v", err)
	}

	if err := w.GoTo(2); !errors.Is(err, rxform.ErrStepOutOfRange) {
		t.Errorf("expected ErrStepOutOfRange, got %v", err)
	}
	if err := w.GoTo(-1); !errors.Is(err, rxform.ErrStepOutOfRange) {
		t.Errorf("expected ErrStepOutOfRange, got %v", err)
	}
}

func TestWizard_StaleStepSubmitIgnored(t *testing.T) {
	var rec rxtesting.Recorder
	w, err := rxform.NewWizard(twoSteps(), nil, nil, rec.Handlers())
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	defer w.Close()

	stale, _ := w.CurrentForm()
	dom := memdom.New()
	el := dom.Input(rxform.KindText, "a")
	if err := stale.Mount(context.Background(), dom); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	dom.Type(el, "1")

	if err := w.GoTo(1); err != nil {
		t.Fatalf("GoTo() error = %v", err)
	}
	if err := w.GoTo(0); err != nil {
		t.Fatalf("GoTo() error = %v", err)
	}

	// The stale instance is unmounted, so its submit never reaches the wizard.
	dom.Submit()
	if len(w.Values()) != 0 {
		t.Errorf("expected no values accumulated, got %v", w.Values())
	}
}

func TestWizard_InitialStep(t *testing.T) {
	w, err := rxform.NewWizard(twoSteps(), nil, nil, rxform.Handlers{}, rxform.WithInitialStep(1))
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	if w.CurrentStep() != 1 {
		t.Errorf("expected step 1, got %d", w.CurrentStep())
	}

	if _, err := rxform.NewWizard(twoSteps(), nil, nil, rxform.Handlers{}, rxform.WithInitialStep(5)); !errors.Is(err, rxform.ErrStepOutOfRange) {
		t.Errorf("expected ErrStepOutOfRange, got %v", err)
	}
	if _, err := rxform.NewWizard(nil, nil, nil, rxform.Handlers{}); !errors.Is(err, rxform.ErrStepOutOfRange) {
		t.Errorf("expected ErrStepOutOfRange for no steps, got %v", err)
	}
}

func TestWizard_CurrentFormReused(t *testing.T) {
	w, _ := rxform.NewWizard(twoSteps(), nil, nil, rxform.Handlers{})
	defer w.Close()

	a, _ := w.CurrentForm()
	b, _ := w.CurrentForm()
	if a != b {
		t.Error("expected the same live form for the same step")
	}
}
