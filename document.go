package rxform

import (
	"fmt"
	"time"
)

// Document is a declarative form definition, decoded from YAML or JSON.
//
// Example:
//
//	debounce: 200ms
//	fields:
//	  - name: email
//	    input: email
//	    rules: required,email
//	    message: enter a valid email
//	  - name: password
//	    input: password
//	    rules: required,min=8
//	  - name: confirm
//	    input: password
//	    equal_to: password
//	  - name: plan
//	    input: radio
//	    options: [free, pro]
//	    default: free
type Document struct {
	Debounce     string      `json:"debounce,omitempty" yaml:"debounce,omitempty"`
	Throttle     string      `json:"throttle,omitempty" yaml:"throttle,omitempty"`
	ValueChanges bool        `json:"value_changes,omitempty" yaml:"value_changes,omitempty"`
	Fields       []FieldSpec `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
}

// FieldSpec declares one field of a Document.
type FieldSpec struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Input    string   `json:"input,omitempty" yaml:"input,omitempty" validate:"omitempty,oneof=text search email password checkbox radio date number range select"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Rules    string   `json:"rules,omitempty" yaml:"rules,omitempty"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
	EqualTo  string   `json:"equal_to,omitempty" yaml:"equal_to,omitempty"`
	External bool     `json:"external,omitempty" yaml:"external,omitempty"`
}

// Kind returns the input kind of the field, text when unset.
func (s FieldSpec) Kind() string {
	if s.Input == "" {
		return KindText
	}
	return s.Input
}

// DisplayLabel returns the label, or the name when no label is set.
func (s FieldSpec) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// DecodeDocument decodes and validates a document.
func DecodeDocument(codec Codec, data []byte) (*Document, error) {
	var doc Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec.ContentType(), err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document structure, the durations, the option lists,
// the equal_to references and every validation rule.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	if _, err := parseDuration(d.Debounce); err != nil {
		return fmt.Errorf("invalid debounce: %w", err)
	}
	if _, err := parseDuration(d.Throttle); err != nil {
		return fmt.Errorf("invalid throttle: %w", err)
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, s := range d.Fields {
		if seen[s.Name] {
			return fmt.Errorf("duplicate field %q", s.Name)
		}
		seen[s.Name] = true
	}

	for _, s := range d.Fields {
		switch s.Kind() {
		case KindRadio, KindSelect:
			if len(s.Options) == 0 {
				return fmt.Errorf("field %q: %s input needs options", s.Name, s.Kind())
			}
		}
		if s.EqualTo != "" && !seen[s.EqualTo] {
			return fmt.Errorf("field %q: equal_to references unknown field %q", s.Name, s.EqualTo)
		}
		if s.Rules != "" {
			if err := CheckRule(s.Rules); err != nil {
				return fmt.Errorf("field %q: %w", s.Name, err)
			}
		}
		if _, err := s.defaultValue(); err != nil {
			return err
		}
	}
	return nil
}

// Definitions builds the definition table of the document.
func (d *Document) Definitions() (Fields, error) {
	fields := make(Fields, len(d.Fields))
	for _, s := range d.Fields {
		v, err := s.defaultValue()
		if err != nil {
			return nil, err
		}

		var validators []Validator
		if s.Rules != "" {
			validators = append(validators, Rule(s.Rules, s.Message))
		}
		if s.EqualTo != "" {
			validators = append(validators, EqualTo(s.EqualTo, s.Message))
		}

		def := FieldDefinition{Value: v, External: s.External}
		switch len(validators) {
		case 0:
		case 1:
			def.Validate = validators[0]
		default:
			def.Validate = All(validators...)
		}
		fields[s.Name] = def
	}
	return fields, nil
}

// Options returns the form options the document declares.
func (d *Document) Options() []Option {
	var opts []Option
	if dur, err := parseDuration(d.Debounce); err == nil && d.Debounce != "" {
		opts = append(opts, WithDebounce(dur))
	}
	if dur, err := parseDuration(d.Throttle); err == nil && d.Throttle != "" {
		opts = append(opts, WithThrottle(dur))
	}
	if d.ValueChanges {
		opts = append(opts, WithValueChanges())
	}
	return opts
}

// Spec returns the field spec with the given name.
func (d *Document) Spec(name string) (FieldSpec, bool) {
	for _, s := range d.Fields {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// defaultValue converts the decoded default to the value type of the input:
// dates parse from YYYY-MM-DD strings and checkboxes default to false.
func (s FieldSpec) defaultValue() (Value, error) {
	if s.Kind() == KindCheckbox {
		switch v := s.Default.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		default:
			return nil, &TypeMismatchError{Field: s.Name, Expected: "bool", Value: v}
		}
	}
	if s.Default == nil {
		return nil, nil
	}
	if s.Kind() != KindDate {
		return s.Default, nil
	}
	switch v := s.Default.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: invalid date default: %w", s.Name, err)
		}
		return t, nil
	default:
		return nil, &TypeMismatchError{Field: s.Name, Expected: "time.Time", Value: v}
	}
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
