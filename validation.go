package rxform

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// Validator checks a candidate value. It receives the current values of the
// whole form, so rules may depend on other fields, and the owner's properties.
// It returns a message, or "" when the value is valid. Validators run while
// the store is locked and must not call back into the form.
type Validator func(value Value, form FormValues, ext External) string

// validateField runs the validator of a field. A nil form stands for a store
// that is not initialized yet and is replaced by a placeholder with an empty
// record per declared field.
func validateField(fields Fields, name string, value Value, form FormValues, ext External) string {
	def, ok := fields[name]
	if !ok || def.Validate == nil {
		return ""
	}
	if form == nil {
		form = placeholderValues(fields)
	}
	return def.Validate(value, form, ext)
}

func placeholderValues(fields Fields) FormValues {
	out := make(FormValues, len(fields))
	for name := range fields {
		out[name] = FieldState{}
	}
	return out
}

// Rule builds a validator from a go-playground/validator tag such as
// "required,email" or "min=3,max=20". When message is empty the failing tag is
// reported instead. Rule panics on a tag the validator does not know; use
// CheckRule to vet tags that come from documents.
func Rule(tag, message string) Validator {
	return func(value Value, _ FormValues, _ External) string {
		if value == nil {
			value = Empty
		}
		if err := validate.Var(value, tag); err != nil {
			return ruleMessage(err, message)
		}
		return ""
	}
}

// EqualTo builds a validator that requires the value to equal the current
// value of another field.
func EqualTo(other, message string) Validator {
	return func(value Value, form FormValues, _ External) string {
		if value == nil {
			value = Empty
		}
		var otherValue Value = Empty
		if st, ok := form[other]; ok && st.Value != nil {
			otherValue = st.Value
		}
		if err := validate.VarWithValue(value, otherValue, "eqfield"); err != nil {
			if message != "" {
				return message
			}
			return "must match " + other
		}
		return ""
	}
}

// All runs validators in order and returns the first message.
func All(validators ...Validator) Validator {
	return func(value Value, form FormValues, ext External) string {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if msg := v(value, form, ext); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// CheckRule reports whether the validator understands a tag.
func CheckRule(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rule %q: %v", tag, r)
		}
	}()
	_ = validate.Var(Empty, tag) //nolint:errcheck // only the panic matters
	return nil
}

func ruleMessage(err error, message string) string {
	if message != "" {
		return message
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return "must satisfy " + fe.Tag()
	}
	return err.Error()
}
