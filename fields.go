package rxform

import "github.com/zoobzio/capitan"

// Field keys for form events.
var (
	// KeyFormID is the id of the form instance.
	KeyFormID = capitan.NewStringKey("form_id")

	// KeyField is the name of the field an event concerns.
	KeyField = capitan.NewStringKey("field")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyErrorCount is the number of field errors of a rejected submission.
	KeyErrorCount = capitan.NewIntKey("error_count")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyThrottle is the configured throttle duration.
	KeyThrottle = capitan.NewDurationKey("throttle")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyState is the current state of a registry.
	KeyState = capitan.NewStringKey("state")

	// KeyStep is a wizard step index.
	KeyStep = capitan.NewIntKey("step")

	// KeyFieldCount is the number of fields in a document.
	KeyFieldCount = capitan.NewIntKey("field_count")
)
