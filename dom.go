package rxform

import "strings"

// Input kinds, as carried by the type attribute of an input element. Selects
// report KindSelect.
const (
	KindText     = "text"
	KindSearch   = "search"
	KindEmail    = "email"
	KindPassword = "password"
	KindCheckbox = "checkbox"
	KindRadio    = "radio"
	KindDate     = "date"
	KindNumber   = "number"
	KindRange    = "range"
	KindSelect   = "select"
)

// Event types the form listens to.
const (
	EventInput  = "input"
	EventChange = "change"
	EventSubmit = "submit"
)

// Element is a node of the host document.
type Element interface {
	// Tag returns the lower-case tag name: "form", "input" or "select".
	Tag() string

	// Attr returns an attribute and whether it is present.
	Attr(name string) (string, bool)
}

// Event is a DOM event delivered to a listener.
type Event struct {
	Type   string
	Target Element

	// Value is the current value of the target.
	Value Value

	// Checked is the checked flag of a checkbox or radio target.
	Checked bool

	// Prevent cancels the platform default action. May be nil.
	Prevent func()
}

// PreventDefault cancels the platform default action of the event.
func (e Event) PreventDefault() {
	if e.Prevent != nil {
		e.Prevent()
	}
}

// DOM is the capability set a form needs from its host document.
type DOM interface {
	// Root returns the form element, or nil when the component has none.
	Root() Element

	// QueryNamedInputs returns the input descendants of the root.
	QueryNamedInputs() []Element

	// QueryNamedSelects returns the select descendants of the root.
	QueryNamedSelects() []Element

	// ReadValue returns the current value of an element.
	ReadValue(el Element) Value

	// WriteValue sets the value of an element. Checkbox and radio elements
	// take a bool for their checked flag; selects take the option value.
	WriteValue(el Element, v Value) error

	// OnEvent registers a listener and returns the function that removes it.
	OnEvent(el Element, eventType string, handler func(Event)) (remove func())
}

func elementName(el Element) string {
	if el == nil {
		return ""
	}
	name, _ := el.Attr("name")
	return name
}

func hasName(el Element) bool {
	if el == nil {
		return false
	}
	_, ok := el.Attr("name")
	return ok
}

// elementKind returns the input kind of an element; inputs without a type
// attribute are text inputs.
func elementKind(el Element) string {
	if el == nil {
		return ""
	}
	if strings.EqualFold(el.Tag(), "select") {
		return KindSelect
	}
	kind, ok := el.Attr("type")
	if !ok || kind == "" {
		return KindText
	}
	return strings.ToLower(kind)
}

// eventTypeFor returns the event a bound element is listened on.
func eventTypeFor(kind string) string {
	switch kind {
	case KindCheckbox, KindRadio, KindSelect:
		return EventChange
	default:
		return EventInput
	}
}

func namedElements(els []Element) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		if hasName(el) {
			out = append(out, el)
		}
	}
	return out
}

func elementsNamed(els []Element, name string) []Element {
	var out []Element
	for _, el := range els {
		if elementName(el) == name {
			out = append(out, el)
		}
	}
	return out
}
