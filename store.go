package rxform

import (
	"fmt"
	"sync"
)

// Store owns the FormState of one form instance. Every write goes through
// ApplyFieldUpdate, SetValue or MarkSubmitted. Once sealed at teardown it
// rejects every write.
type Store struct {
	fields Fields
	ext    External
	notify func(FormState)

	mu     sync.RWMutex
	state  FormState
	sealed bool
}

// NewStore builds the initial state from the definition table. Defaults are
// resolved against ext and validated against a placeholder form, since no
// state exists yet.
func NewStore(fields Fields, ext External) (*Store, error) {
	state := FormState{FormValue: make(FormValues, len(fields))}
	for _, name := range fields.Names() {
		v, err := fields.ResolveDefault(name, ext)
		if err != nil {
			return nil, err
		}
		dirty := !isClean(v)
		state.FormValue[name] = FieldState{
			Value: v,
			Dirty: dirty,
			Error: validateField(fields, name, v, nil, ext),
		}
		state.Dirty = state.Dirty || dirty
	}
	return &Store{fields: fields, ext: ext, state: state}, nil
}

// OnChange sets the function notified with a snapshot after every mutation.
// It is called without the store lock held. Must be set before use.
func (s *Store) OnChange(fn func(FormState)) {
	s.notify = fn
}

// ApplyFieldUpdate merges a single-field delta. The field error is recomputed
// from the new value and the state of the form before the update. It reports
// whether the delta was applied.
func (s *Store) ApplyFieldUpdate(d Delta) bool {
	s.mu.Lock()
	if s.sealed {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.fields[d.Field]; !ok {
		s.mu.Unlock()
		return false
	}

	before := s.state.FormValue.clone()
	st := d.State
	if st.Value == nil {
		st.Value = Empty
	}
	st.Error = validateField(s.fields, d.Field, st.Value, before, s.ext)
	s.state.FormValue[d.Field] = st
	s.state.Dirty = true
	snap := s.state.clone()
	s.mu.Unlock()

	s.emit(snap)
	return true
}

// SetValue merges field records without going through the event pipeline and
// without revalidating. External fields are marked touched.
func (s *Store) SetValue(values FormValues) error {
	s.mu.Lock()
	if s.sealed {
		s.mu.Unlock()
		return ErrUnmounted
	}
	for name := range values {
		if _, ok := s.fields[name]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	for name, st := range values {
		if s.fields[name].External {
			st.Touched = true
		}
		if st.Value == nil {
			st.Value = Empty
		}
		s.state.FormValue[name] = st
		if st.Dirty {
			s.state.Dirty = true
		}
	}
	snap := s.state.clone()
	s.mu.Unlock()

	s.emit(snap)
	return nil
}

// MarkSubmitted sets the submitted flag. It reports whether this call made
// the transition.
func (s *Store) MarkSubmitted() bool {
	s.mu.Lock()
	if s.sealed || s.state.Submitted {
		s.mu.Unlock()
		return false
	}
	s.state.Submitted = true
	snap := s.state.clone()
	s.mu.Unlock()

	s.emit(snap)
	return true
}

// HasError reports whether any field carries an error, computed from the
// current values on every call.
func (s *Store) HasError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FormValue.hasError()
}

// Submitted reports whether the form was submitted.
func (s *Store) Submitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Submitted
}

// Value returns the stored value of a field.
func (s *Store) Value(field string) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FormValue[field].Value
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// seal rejects every later write.
func (s *Store) seal() {
	s.mu.Lock()
	s.sealed = true
	s.mu.Unlock()
}

func (s *Store) emit(snap FormState) {
	if s.notify != nil {
		s.notify(snap)
	}
}
