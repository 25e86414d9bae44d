package rxform

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Delta is a single-field update produced by a normalizer.
type Delta struct {
	Field string
	State FieldState
}

// NormalizeCheckbox toggles the previous value of a checkbox field. The new
// value is the negation of prev, not a read of the element, so the store stays
// the source of truth while the element and the state disagree.
func NormalizeCheckbox(name string, prev Value) (Delta, error) {
	b, ok := prev.(bool)
	if !ok {
		return Delta{}, &TypeMismatchError{Field: name, Expected: "bool", Value: prev}
	}
	return touched(name, !b), nil
}

// NormalizeRadio takes the value attribute of the selected radio.
func NormalizeRadio(ev Event) Delta {
	name := elementName(ev.Target)
	if ev.Target != nil {
		if v, ok := ev.Target.Attr("value"); ok {
			return touched(name, v)
		}
	}
	return touched(name, rawValue(ev))
}

// NormalizeText takes the raw value of a text-like input or a select.
func NormalizeText(ev Event) Delta {
	return touched(elementName(ev.Target), rawValue(ev))
}

func touched(name string, v Value) Delta {
	return Delta{
		Field: name,
		State: FieldState{Value: v, Dirty: true, Touched: true},
	}
}

func rawValue(ev Event) Value {
	if ev.Value == nil {
		return Empty
	}
	return ev.Value
}

// normalizer dispatches raw events to the normalizer of their input kind.
type normalizer struct {
	policy *bluemonday.Policy
}

func newNormalizer(sanitize bool) normalizer {
	n := normalizer{}
	if sanitize {
		n.policy = bluemonday.StrictPolicy()
	}
	return n
}

// normalize turns a raw event into a delta. latest returns the most recent
// value known for a field and backs the checkbox toggle.
func (n normalizer) normalize(ev Event, latest func(field string) Value) (Delta, error) {
	switch elementKind(ev.Target) {
	case KindCheckbox:
		name := elementName(ev.Target)
		return NormalizeCheckbox(name, latest(name))
	case KindRadio:
		return NormalizeRadio(ev), nil
	default:
		d := NormalizeText(ev)
		if s, ok := d.State.Value.(string); ok && n.policy != nil {
			d.State.Value = html.UnescapeString(n.policy.Sanitize(s))
		}
		return d, nil
	}
}
