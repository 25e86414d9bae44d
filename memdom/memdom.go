// Package memdom is an in-memory DOM for rxform forms. It backs tests and
// non-browser front-ends: elements are built with the Document builders and
// user interaction is simulated with Type, Click, Choose and Submit.
package memdom

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zoobzio/rxform"
)

// Element is a node of a Document.
type Element struct {
	doc     *Document
	tag     string
	attrs   map[string]string
	value   string
	checked bool
	options []string
}

// Tag returns the tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Attr returns an attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

// Set sets an attribute.
func (e *Element) Set(name, value string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.attrs[name] = value
	return e
}

// Name returns the name attribute.
func (e *Element) Name() string {
	v, _ := e.Attr("name")
	return v
}

// Value returns the current value of the element.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.value
}

// Checked returns the checked flag of a checkbox or radio.
func (e *Element) Checked() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.checked
}

// Options returns the option values of a select.
func (e *Element) Options() []string {
	return slices.Clone(e.options)
}

type listener struct {
	el        *Element
	eventType string
	fn        func(rxform.Event)
}

// Document holds a form root and its input and select descendants.
type Document struct {
	mu        sync.Mutex
	root      *Element
	inputs    []*Element
	selects   []*Element
	listeners map[int]listener
	next      int
}

// New creates a document with a form root.
func New() *Document {
	d := NewWithoutRoot()
	d.root = d.element("form")
	return d
}

// NewWithoutRoot creates a document whose component rendered no form element.
func NewWithoutRoot() *Document {
	return &Document{listeners: make(map[int]listener)}
}

func (d *Document) element(tag string) *Element {
	return &Element{doc: d, tag: tag, attrs: make(map[string]string)}
}

// Input appends an input of the given kind. An empty name leaves the name
// attribute out.
func (d *Document) Input(kind, name string) *Element {
	el := d.element("input")
	el.attrs["type"] = kind
	if name != "" {
		el.attrs["name"] = name
	}
	d.mu.Lock()
	d.inputs = append(d.inputs, el)
	d.mu.Unlock()
	return el
}

// Radio appends a radio input of a group.
func (d *Document) Radio(name, value string) *Element {
	el := d.Input(rxform.KindRadio, name)
	el.Set("value", value)
	return el
}

// Select appends a select with its option values.
func (d *Document) Select(name string, options ...string) *Element {
	el := d.element("select")
	if name != "" {
		el.attrs["name"] = name
	}
	el.options = slices.Clone(options)
	d.mu.Lock()
	d.selects = append(d.selects, el)
	d.mu.Unlock()
	return el
}

// Root returns the form element, or nil.
func (d *Document) Root() rxform.Element {
	if d.root == nil {
		return nil
	}
	return d.root
}

// QueryNamedInputs returns the inputs in document order.
func (d *Document) QueryNamedInputs() []rxform.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return elements(d.inputs)
}

// QueryNamedSelects returns the selects in document order.
func (d *Document) QueryNamedSelects() []rxform.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return elements(d.selects)
}

func elements(els []*Element) []rxform.Element {
	out := make([]rxform.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}

// ReadValue returns the checked flag of checkboxes, the value of a checked
// radio ("" when unchecked) and the value string of anything else.
func (d *Document) ReadValue(el rxform.Element) rxform.Value {
	e, ok := el.(*Element)
	if !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e.attrs["type"] {
	case rxform.KindCheckbox:
		return e.checked
	case rxform.KindRadio:
		if !e.checked {
			return rxform.Empty
		}
		return e.attrs["value"]
	default:
		return e.value
	}
}

// WriteValue sets the checked flag of checkboxes and radios from a bool, the
// selected option of a select and the value of anything else from a string.
func (d *Document) WriteValue(el rxform.Element, v rxform.Value) error {
	e, ok := el.(*Element)
	if !ok {
		return fmt.Errorf("memdom: foreign element %T", el)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if e.tag == "input" {
		switch e.attrs["type"] {
		case rxform.KindCheckbox, rxform.KindRadio:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("memdom: %s needs a bool, got %T", e.attrs["type"], v)
			}
			if b && e.attrs["type"] == rxform.KindRadio {
				d.uncheckGroup(e.attrs["name"])
			}
			e.checked = b
			return nil
		}
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("memdom: %s needs a string, got %T", e.tag, v)
	}
	if e.tag == "select" && !slices.Contains(e.options, s) {
		return fmt.Errorf("memdom: select %q has no option %q", e.attrs["name"], s)
	}
	e.value = s
	return nil
}

// OnEvent registers a listener. Submit listeners go on the root.
func (d *Document) OnEvent(el rxform.Element, eventType string, handler func(rxform.Event)) func() {
	e, ok := el.(*Element)
	if !ok {
		return func() {}
	}
	d.mu.Lock()
	id := d.next
	d.next++
	d.listeners[id] = listener{el: e, eventType: eventType, fn: handler}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// ListenerCount returns the number of registered listeners.
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Type replaces the value of a text-like input and fires input.
func (d *Document) Type(el *Element, value string) {
	d.mu.Lock()
	el.value = value
	d.mu.Unlock()
	d.fire(el, rxform.Event{Type: rxform.EventInput, Target: el, Value: value})
}

// Click toggles a checkbox, or checks a radio and unchecks the rest of its
// group, and fires change.
func (d *Document) Click(el *Element) {
	d.mu.Lock()
	switch el.attrs["type"] {
	case rxform.KindRadio:
		d.uncheckGroup(el.attrs["name"])
		el.checked = true
	default:
		el.checked = !el.checked
	}
	ev := rxform.Event{Type: rxform.EventChange, Target: el, Value: el.attrs["value"], Checked: el.checked}
	d.mu.Unlock()
	d.fire(el, ev)
}

// Choose selects an option of a select and fires change.
func (d *Document) Choose(el *Element, option string) error {
	d.mu.Lock()
	if !slices.Contains(el.options, option) {
		d.mu.Unlock()
		return fmt.Errorf("memdom: select %q has no option %q", el.attrs["name"], option)
	}
	el.value = option
	d.mu.Unlock()
	d.fire(el, rxform.Event{Type: rxform.EventChange, Target: el, Value: option})
	return nil
}

// Submit fires submit on the root and reports whether a listener prevented
// the default action.
func (d *Document) Submit() bool {
	if d.root == nil {
		return false
	}
	prevented := false
	d.fire(d.root, rxform.Event{
		Type:    rxform.EventSubmit,
		Target:  d.root,
		Prevent: func() { prevented = true },
	})
	return prevented
}

// fire calls the listeners of an element outside the lock, in registration
// order.
func (d *Document) fire(el *Element, ev rxform.Event) {
	d.mu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id, l := range d.listeners {
		if l.el == el && l.eventType == ev.Type {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	fns := make([]func(rxform.Event), len(ids))
	for i, id := range ids {
		fns[i] = d.listeners[id].fn
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (d *Document) uncheckGroup(name string) {
	for _, in := range d.inputs {
		if in.attrs["type"] == rxform.KindRadio && in.attrs["name"] == name {
			in.checked = false
		}
	}
}

var _ rxform.DOM = (*Document)(nil)
