package rxform

import (
	"sort"
	"time"
)

// Value is the scalar held by a field: a string, a Go integer or float, a
// bool, or a time.Time.
type Value = any

// Empty is the empty sentinel. A field whose value equals Empty, or false, is
// not dirty, and a definition without a default resolves to Empty.
const Empty = ""

// External carries the properties an owner passes to a form instance. They are
// handed to value functions and validators and forwarded to the component.
type External map[string]any

// FieldState is the per-field record kept by the store.
type FieldState struct {
	Value   Value
	Dirty   bool
	Touched bool
	// Error is the validation message, or "" when the value is valid.
	Error string
}

// FormValues maps field names to their state.
type FormValues map[string]FieldState

// SubmitValues maps field names to the scalar delivered on a successful submit.
type SubmitValues map[string]Value

// FormErrors maps field names to validation messages.
type FormErrors map[string]string

// FormState is the authoritative state of one form instance.
type FormState struct {
	FormValue FormValues
	// Dirty latches true once any field has become dirty.
	Dirty bool
	// Submitted becomes true on the first successful submit and never reverts.
	Submitted bool
}

// HasError reports whether any field carries a validation message.
func (s FormState) HasError() bool {
	return s.FormValue.hasError()
}

// Values returns the scalar value of every field.
func (v FormValues) Values() SubmitValues {
	out := make(SubmitValues, len(v))
	for name, st := range v {
		out[name] = st.Value
	}
	return out
}

// Errors returns the validation message of every field that has one.
func (v FormValues) Errors() FormErrors {
	out := make(FormErrors)
	for name, st := range v {
		if st.Error != "" {
			out[name] = st.Error
		}
	}
	return out
}

// Names returns the field names in lexical order.
func (v FormValues) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v FormValues) hasError() bool {
	for _, st := range v {
		if st.Error != "" {
			return true
		}
	}
	return false
}

func (v FormValues) clone() FormValues {
	out := make(FormValues, len(v))
	for name, st := range v {
		out[name] = st
	}
	return out
}

func (s FormState) clone() FormState {
	return FormState{
		FormValue: s.FormValue.clone(),
		Dirty:     s.Dirty,
		Submitted: s.Submitted,
	}
}

func (v SubmitValues) clone() SubmitValues {
	out := make(SubmitValues, len(v))
	for name, val := range v {
		out[name] = val
	}
	return out
}

// isEmpty reports whether v is the empty sentinel. nil counts as empty.
func isEmpty(v Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == Empty
}

// isClean reports whether a default leaves its field clean: the empty
// sentinel, or an unchecked checkbox.
func isClean(v Value) bool {
	if b, ok := v.(bool); ok {
		return !b
	}
	return isEmpty(v)
}

// isScalar reports whether v is one of the kinds a field may hold.
func isScalar(v Value) bool {
	switch v.(type) {
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
