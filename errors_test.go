package rxform

import (
	"strings"
	"testing"
)

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{MissingFields: []string{"zip"}, MissingInputs: []string{"email", "terms"}}
	want := "configuration error: missing field definitions for inputs: zip; missing name attribute on inputs for fields: email, terms"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	only := &ConfigurationError{MissingInputs: []string{"email"}}
	if strings.Contains(only.Error(), "missing field definitions") {
		t.Errorf("unexpected section in %q", only.Error())
	}
}

func TestTypeMismatchError_Message(t *testing.T) {
	err := &TypeMismatchError{Field: "terms", Expected: "bool", Value: "yes"}
	if err.Error() != "terms must be of type bool, got string" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidationError_MessageSorted(t *testing.T) {
	err := &ValidationError{Errors: FormErrors{"zip": "too short", "email": "invalid"}}
	if err.Error() != "validation failed: email: invalid, zip: too short" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
