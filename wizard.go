package rxform

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Step builds the form instance of one wizard step. A *Decorator is a Step.
type Step interface {
	Instance(ext External, h Handlers) (*Form, error)
}

// WizardComponent renders a wizard.
type WizardComponent interface {
	Render(props WizardProps)
}

// WizardComponentFunc adapts a function to WizardComponent.
type WizardComponentFunc func(props WizardProps)

// Render calls fn(props).
func (fn WizardComponentFunc) Render(props WizardProps) {
	fn(props)
}

// WizardProps is what the wizard component receives.
type WizardProps struct {
	CurrentStep int
	Steps       int

	// Values holds the values accumulated from the submitted steps.
	Values    SubmitValues
	Submitted bool

	// GoTo moves the cursor to a step.
	GoTo func(step int) error

	// CurrentForm returns the live form of the current step.
	CurrentForm func() (*Form, error)

	External External
}

type wizardConfig struct {
	initialStep int
}

// WizardOption configures a Wizard.
type WizardOption func(*wizardConfig)

// WithInitialStep sets the step the cursor starts on. Default: 0.
func WithInitialStep(step int) WizardOption {
	return func(c *wizardConfig) {
		c.initialStep = step
	}
}

// Wizard sequences several forms. Each step's successful submission merges
// its values into an accumulator and advances the cursor; the last step's
// submission completes the wizard and delivers the accumulated values to
// OnSubmit exactly once. Step errors are forwarded to OnError.
type Wizard struct {
	id       string
	steps    []Step
	comp     WizardComponent
	ext      External
	handlers Handlers

	mu        sync.Mutex
	current   int
	values    SubmitValues
	submitted bool
	form      *Form
	formStep  int
}

// NewWizard creates a wizard over the given steps.
func NewWizard(steps []Step, comp WizardComponent, ext External, h Handlers, opts ...WizardOption) (*Wizard, error) {
	cfg := wizardConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.initialStep < 0 || cfg.initialStep >= len(steps) {
		return nil, fmt.Errorf("initial step %d of %d: %w", cfg.initialStep, len(steps), ErrStepOutOfRange)
	}

	return &Wizard{
		id:       uuid.NewString(),
		steps:    steps,
		comp:     comp,
		ext:      ext,
		handlers: h,
		current:  cfg.initialStep,
		values:   make(SubmitValues),
	}, nil
}

// CurrentStep returns the zero-based cursor.
func (w *Wizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Values returns a copy of the accumulated values.
func (w *Wizard) Values() SubmitValues {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.values.clone()
}

// Submitted reports whether the last step was submitted.
func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// GoTo moves the cursor to step. The form of the step left behind is
// unmounted.
func (w *Wizard) GoTo(step int) error {
	w.mu.Lock()
	if step < 0 || step >= len(w.steps) {
		w.mu.Unlock()
		return fmt.Errorf("step %d of %d: %w", step, len(w.steps), ErrStepOutOfRange)
	}
	prev := w.moveLocked(step)
	props := w.propsLocked()
	w.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}
	capitan.Emit(context.Background(), WizardStepChanged,
		KeyFormID.Field(w.id),
		KeyStep.Field(step),
	)
	w.render(props)
	return nil
}

// CurrentForm returns the form of the current step, building it on first use.
// The form is bound to the wizard's own handlers; the caller mounts it.
func (w *Wizard) CurrentForm() (*Form, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.form != nil && w.formStep == w.current {
		return w.form, nil
	}

	step := w.current
	form, err := w.steps[step].Instance(w.ext, Handlers{
		OnSubmit: w.stepSubmitted(step),
		OnError:  w.stepFailed,
	})
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", step, err)
	}
	w.form = form
	w.formStep = step
	return form, nil
}

// Render renders the wizard component with the current props.
func (w *Wizard) Render() {
	w.mu.Lock()
	props := w.propsLocked()
	w.mu.Unlock()
	w.render(props)
}

// Close unmounts the live step form.
func (w *Wizard) Close() {
	w.mu.Lock()
	form := w.form
	w.form = nil
	w.mu.Unlock()

	if form != nil {
		form.Unmount()
	}
}

// stepSubmitted returns the OnSubmit handler of a step. Submissions from a
// step the cursor already left are ignored.
func (w *Wizard) stepSubmitted(step int) func(SubmitValues) {
	return func(values SubmitValues) {
		w.mu.Lock()
		if w.submitted || step != w.current {
			w.mu.Unlock()
			return
		}

		for name, v := range values {
			w.values[name] = v
		}

		var prev *Form
		last := w.current == len(w.steps)-1
		if last {
			w.submitted = true
		} else {
			prev = w.moveLocked(w.current + 1)
		}
		next := w.current
		accumulated := w.values.clone()
		props := w.propsLocked()
		w.mu.Unlock()

		if prev != nil {
			prev.Unmount()
		}

		if last {
			capitan.Emit(context.Background(), WizardCompleted,
				KeyFormID.Field(w.id),
				KeyStep.Field(next),
			)
		} else {
			capitan.Emit(context.Background(), WizardStepChanged,
				KeyFormID.Field(w.id),
				KeyStep.Field(next),
			)
		}

		w.render(props)
		if last {
			w.handlers.onSubmit(accumulated)
		}
	}
}

func (w *Wizard) stepFailed(errs FormErrors) {
	w.handlers.onError(errs)
}

// moveLocked sets the cursor and detaches the live form when the step
// changes. The detached form is returned for unmounting outside the lock.
func (w *Wizard) moveLocked(step int) *Form {
	var prev *Form
	if step != w.current && w.form != nil {
		prev = w.form
		w.form = nil
	}
	w.current = step
	return prev
}

func (w *Wizard) propsLocked() WizardProps {
	return WizardProps{
		CurrentStep: w.current,
		Steps:       len(w.steps),
		Values:      w.values.clone(),
		Submitted:   w.submitted,
		GoTo:        w.GoTo,
		CurrentForm: w.CurrentForm,
		External:    w.ext,
	}
}

func (w *Wizard) render(props WizardProps) {
	if w.comp != nil {
		w.comp.Render(props)
	}
}
