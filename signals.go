package rxform

import "github.com/zoobzio/capitan"

// Form lifecycle signals.
var (
	// FormMounted is emitted when a form binds to its DOM.
	FormMounted = capitan.NewSignal(
		"rxform.form.mounted",
		"Form bound to its inputs",
	)

	// FormUnmounted is emitted when a form releases its listeners.
	FormUnmounted = capitan.NewSignal(
		"rxform.form.unmounted",
		"Form torn down",
	)

	// FormStateChanged is emitted when the submission state changes.
	FormStateChanged = capitan.NewSignal(
		"rxform.form.state.changed",
		"Submission state transition",
	)
)

// Field update signals.
var (
	// FormEventReceived is emitted when a bound input fires.
	FormEventReceived = capitan.NewSignal(
		"rxform.form.event.received",
		"Input event received",
	)

	// FormEventRejected is emitted when an input event cannot be normalized.
	FormEventRejected = capitan.NewSignal(
		"rxform.form.event.rejected",
		"Input event rejected",
	)

	// FormFieldUpdated is emitted when a delta reaches the store.
	FormFieldUpdated = capitan.NewSignal(
		"rxform.form.field.updated",
		"Field update applied",
	)

	// FormValueSet is emitted when values are set through the imperative API.
	FormValueSet = capitan.NewSignal(
		"rxform.form.value.set",
		"Field values set directly",
	)
)

// Submission signals.
var (
	// FormSubmitSucceeded is emitted when a submission is accepted.
	FormSubmitSucceeded = capitan.NewSignal(
		"rxform.form.submit.succeeded",
		"Form submitted",
	)

	// FormSubmitFailed is emitted when a submission is rejected by validation.
	FormSubmitFailed = capitan.NewSignal(
		"rxform.form.submit.failed",
		"Form submission rejected",
	)

	// FormSubmitIgnored is emitted when a submit arrives after the form was
	// already submitted.
	FormSubmitIgnored = capitan.NewSignal(
		"rxform.form.submit.ignored",
		"Submit on a submitted form ignored",
	)
)

// Wizard signals.
var (
	// WizardStepChanged is emitted when the wizard cursor moves.
	WizardStepChanged = capitan.NewSignal(
		"rxform.wizard.step.changed",
		"Wizard step changed",
	)

	// WizardCompleted is emitted when the last step submits.
	WizardCompleted = capitan.NewSignal(
		"rxform.wizard.completed",
		"Wizard completed",
	)
)

// Registry signals.
var (
	// RegistryStarted is emitted when a Registry begins watching.
	RegistryStarted = capitan.NewSignal(
		"rxform.registry.started",
		"Registry watching started",
	)

	// RegistryStopped is emitted when a Registry stops watching.
	RegistryStopped = capitan.NewSignal(
		"rxform.registry.stopped",
		"Registry watching stopped",
	)

	// RegistryStateChanged is emitted when a Registry transitions between states.
	RegistryStateChanged = capitan.NewSignal(
		"rxform.registry.state.changed",
		"Registry state transition",
	)

	// RegistryDecodeFailed is emitted when a document cannot be decoded.
	RegistryDecodeFailed = capitan.NewSignal(
		"rxform.registry.decode.failed",
		"Document decode failed",
	)

	// RegistryValidationFailed is emitted when a document fails validation.
	RegistryValidationFailed = capitan.NewSignal(
		"rxform.registry.validation.failed",
		"Document validation failed",
	)

	// RegistryApplyFailed is emitted when the change callback rejects a document.
	RegistryApplyFailed = capitan.NewSignal(
		"rxform.registry.apply.failed",
		"Document apply failed",
	)

	// RegistryApplySucceeded is emitted when a document becomes active.
	RegistryApplySucceeded = capitan.NewSignal(
		"rxform.registry.apply.succeeded",
		"Document applied",
	)
)
