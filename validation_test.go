package rxform

import "testing"

func TestRule(t *testing.T) {
	email := Rule("required,email", "enter a valid email")
	if got := email("", nil, nil); got != "enter a valid email" {
		t.Errorf("expected message for empty, got %q", got)
	}
	if got := email("ada@example.com", nil, nil); got != "" {
		t.Errorf("expected valid, got %q", got)
	}
	if got := email(nil, nil, nil); got == "" {
		t.Error("expected nil treated as empty")
	}
}

func TestRule_DefaultMessage(t *testing.T) {
	if got := Rule("min=3", "")("ab", nil, nil); got != "must satisfy min=3" {
		t.Errorf("unexpected message %q", got)
	}
	if got := Rule("required", "")("", nil, nil); got != "must satisfy required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestRule_Numbers(t *testing.T) {
	age := Rule("gte=18", "adults only")
	if got := age(17, nil, nil); got != "adults only" {
		t.Errorf("expected message for 17, got %q", got)
	}
	if got := age(30, nil, nil); got != "" {
		t.Errorf("expected valid, got %q", got)
	}
}

func TestEqualTo(t *testing.T) {
	confirm := EqualTo("password", "")
	form := FormValues{"password": {Value: "secret"}}

	if got := confirm("secret", form, nil); got != "" {
		t.Errorf("expected match, got %q", got)
	}
	if got := confirm("other", form, nil); got != "must match password" {
		t.Errorf("unexpected message %q", got)
	}
	if got := EqualTo("password", "passwords differ")("other", form, nil); got != "passwords differ" {
		t.Errorf("unexpected message %q", got)
	}
	if got := confirm("", FormValues{}, nil); got != "" {
		t.Errorf("expected empty to match a missing field, got %q", got)
	}
}

func TestAll_FirstMessageWins(t *testing.T) {
	v := All(
		Rule("required", "required"),
		nil,
		Rule("min=3", "too short"),
	)
	if got := v("", nil, nil); got != "required" {
		t.Errorf("expected required, got %q", got)
	}
	if got := v("ab", nil, nil); got != "too short" {
		t.Errorf("expected too short, got %q", got)
	}
	if got := v("abc", nil, nil); got != "" {
		t.Errorf("expected valid, got %q", got)
	}
}

func TestValidateField_PlaceholderForm(t *testing.T) {
	var seen FormValues
	fields := Fields{
		"a": {Validate: func(_ Value, form FormValues, _ External) string {
			seen = form
			return ""
		}},
		"b": {},
	}
	validateField(fields, "a", "x", nil, nil)
	if _, ok := seen["b"]; !ok {
		t.Errorf("expected placeholder record for b, got %v", seen)
	}
}

func TestCheckRule(t *testing.T) {
	if err := CheckRule("required,email"); err != nil {
		t.Errorf("expected known rule, got %v", err)
	}
	if err := CheckRule("definitely_not_a_tag"); err == nil {
		t.Error("expected error for unknown tag")
	}
}
