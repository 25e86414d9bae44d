package rxform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors.
var (
	// ErrUnknownField is returned when a name has no field definition.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoFormRoot is returned by Mount when the DOM exposes no form root.
	ErrNoFormRoot = errors.New("no form root in the decorated component")

	// ErrAlreadyMounted is returned when Mount is called twice on one instance.
	ErrAlreadyMounted = errors.New("form already mounted")

	// ErrUnmounted is returned by operations on an instance that was torn down.
	ErrUnmounted = errors.New("form unmounted")

	// ErrNotMounted is returned by Submit before Mount.
	ErrNotMounted = errors.New("form not mounted")

	// ErrStepOutOfRange is returned by wizard navigation outside the step list.
	ErrStepOutOfRange = errors.New("wizard step out of range")

	// ErrNoDocument is returned by a Registry that has no valid document yet.
	ErrNoDocument = errors.New("no valid form document")
)

// ConfigurationError reports a mismatch between the declared fields and the
// named elements discovered at bind time.
type ConfigurationError struct {
	// MissingFields lists input names that have no field definition.
	MissingFields []string
	// MissingInputs lists field definitions that have no bound input.
	MissingInputs []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, "missing field definitions for inputs: "+strings.Join(e.MissingFields, ", "))
	}
	if len(e.MissingInputs) > 0 {
		parts = append(parts, "missing name attribute on inputs for fields: "+strings.Join(e.MissingInputs, ", "))
	}
	return "configuration error: " + strings.Join(parts, "; ")
}

// TypeMismatchError reports a value whose type does not fit the input kind it
// is applied to.
type TypeMismatchError struct {
	Field    string
	Expected string
	Value    Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be of type %s, got %T", e.Field, e.Expected, e.Value)
}

// ValidationError carries the field errors of a rejected submission.
type ValidationError struct {
	Errors FormErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Errors[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
