package rxform

import (
	"fmt"
	"sort"
)

// ValueFunc derives a field default from the owner's properties.
type ValueFunc func(ext External) Value

// FieldDefinition declares one field of a form.
type FieldDefinition struct {
	// Value is the default: a scalar, a ValueFunc, or nil for Empty.
	Value any

	// Validate returns a message when the value is invalid. Optional.
	Validate Validator

	// External marks a field with no native input. It is updated through
	// SetValue only and is exempt from the bind-time input check.
	External bool
}

// Fields is the field definition table, keyed by field name. It is read-only
// once handed to Wrap.
type Fields map[string]FieldDefinition

// ResolveDefault evaluates the default of a field against the owner's
// properties.
func (f Fields) ResolveDefault(name string, ext External) (Value, error) {
	def, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	var v Value
	switch dv := def.Value.(type) {
	case ValueFunc:
		v = dv(ext)
	case func(External) Value:
		v = dv(ext)
	default:
		v = dv
	}

	if v == nil {
		return Empty, nil
	}
	if !isScalar(v) {
		return nil, &TypeMismatchError{Field: name, Expected: "scalar", Value: v}
	}
	return v, nil
}

// HasValidator reports whether the field declares a validator.
func (f Fields) HasValidator(name string) bool {
	def, ok := f[name]
	return ok && def.Validate != nil
}

// RunValidator validates a candidate value for a field. It returns "" when the
// field has no validator or the value is valid.
func (f Fields) RunValidator(name string, value Value, form FormValues, ext External) string {
	return validateField(f, name, value, form, ext)
}

// Names returns every declared field name in lexical order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bound returns the names of the fields that must have a bound input.
func (f Fields) bound() []string {
	names := make([]string, 0, len(f))
	for _, name := range f.Names() {
		if !f[name].External {
			names = append(names, name)
		}
	}
	return names
}

// Reconcile checks the declared fields against the names of the discovered
// input elements. External fields need no input; an input named after one is
// reported as undeclared, since only the imperative API may write it.
func Reconcile(fields Fields, inputNames []string) error {
	declared := make(map[string]bool)
	for _, name := range fields.bound() {
		declared[name] = true
	}

	seen := make(map[string]bool, len(inputNames))
	var missingFields []string
	for _, name := range inputNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		if !declared[name] {
			missingFields = append(missingFields, name)
		}
	}

	var missingInputs []string
	for _, name := range fields.bound() {
		if !seen[name] {
			missingInputs = append(missingInputs, name)
		}
	}

	if len(missingFields) == 0 && len(missingInputs) == 0 {
		return nil
	}
	sort.Strings(missingFields)
	return &ConfigurationError{
		MissingFields: missingFields,
		MissingInputs: missingInputs,
	}
}
