package rxform

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zoobzio/capitan"
)

// Mount binds the form to its DOM. It discovers the named input and select
// elements under the root, checks them against the definition table, writes
// the initial values into them, subscribes to their events and to the submit
// event of the root, and renders the component.
//
// A *ConfigurationError or *TypeMismatchError aborts the mount with nothing
// bound. The context bounds the lifetime of the instance: canceling it stops
// event processing like Unmount does for the pipeline.
func (f *Form) Mount(ctx context.Context, dom DOM) error {
	props, err := f.bind(ctx, dom)
	if err != nil {
		return err
	}
	if f.comp != nil {
		f.comp.Render(props)
	}
	return nil
}

func (f *Form) bind(ctx context.Context, dom DOM) (Props, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unmounted {
		return Props{}, ErrUnmounted
	}
	if f.mounted {
		return Props{}, ErrAlreadyMounted
	}

	root := dom.Root()
	if root == nil {
		return Props{}, ErrNoFormRoot
	}

	inputs := namedElements(dom.QueryNamedInputs())
	selects := namedElements(dom.QueryNamedSelects())
	bound := make([]Element, 0, len(inputs)+len(selects))
	bound = append(bound, inputs...)
	bound = append(bound, selects...)

	names := make([]string, 0, len(bound))
	for _, el := range bound {
		names = append(names, elementName(el))
	}
	if err := Reconcile(f.fields, names); err != nil {
		return Props{}, err
	}

	if err := f.applyInitialValues(dom, inputs, selects); err != nil {
		return Props{}, err
	}

	f.ctx, f.cancel = context.WithCancel(ctx)
	loopCtx := f.ctx

	if !f.cfg.syncMode {
		f.looping = true
		go f.pipeline.run(loopCtx, f.done)
	}

	for _, el := range bound {
		remove := dom.OnEvent(el, eventTypeFor(elementKind(el)), func(ev Event) {
			if ev.Target == nil {
				ev.Target = el
			}
			f.pipeline.dispatch(loopCtx, pipelineInput{event: ev})
		})
		f.removers = append(f.removers, remove)
	}

	f.removers = append(f.removers, dom.OnEvent(root, EventSubmit, func(ev Event) {
		ev.PreventDefault()
		f.pipeline.dispatch(loopCtx, pipelineInput{submit: true})
	}))

	f.mounted = true

	capitan.Emit(loopCtx, FormMounted,
		KeyFormID.Field(f.id),
		KeyDebounce.Field(f.pipeline.debounce),
		KeyThrottle.Field(f.pipeline.throttle),
	)

	return f.props(f.store.Snapshot()), nil
}

// applyInitialValues writes the initial value of every field into its
// elements. Empty values are left alone, except on a checkbox, which needs a
// bool to toggle from.
func (f *Form) applyInitialValues(dom DOM, inputs, selects []Element) error {
	snap := f.store.Snapshot()
	for _, name := range f.fields.Names() {
		value := snap.FormValue[name].Value
		els := elementsNamed(inputs, name)
		if isEmpty(value) {
			if len(els) > 0 && elementKind(els[0]) == KindCheckbox {
				return &TypeMismatchError{Field: name, Expected: "bool", Value: value}
			}
			continue
		}

		if len(els) > 0 {
			if err := writeInput(dom, name, els, value); err != nil {
				return err
			}
		}

		if els := elementsNamed(selects, name); len(els) > 0 {
			s, ok := value.(string)
			if !ok {
				return &TypeMismatchError{Field: name, Expected: "string", Value: value}
			}
			if err := dom.WriteValue(els[0], s); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
	}
	return nil
}

// writeInput applies a value to the inputs sharing a name, checking it fits
// the input kind of the first one.
func writeInput(dom DOM, name string, els []Element, value Value) error {
	el := els[0]
	var err error

	switch elementKind(el) {
	case KindCheckbox:
		b, ok := value.(bool)
		if !ok {
			return &TypeMismatchError{Field: name, Expected: "bool", Value: value}
		}
		err = dom.WriteValue(el, b)

	case KindRadio:
		s, ok := value.(string)
		if !ok {
			return &TypeMismatchError{Field: name, Expected: "string", Value: value}
		}
		for _, radio := range els {
			if v, _ := radio.Attr("value"); v == s {
				err = dom.WriteValue(radio, true)
				break
			}
		}

	case KindDate:
		t, ok := value.(time.Time)
		if !ok {
			return &TypeMismatchError{Field: name, Expected: "time.Time", Value: value}
		}
		err = dom.WriteValue(el, t.UTC().Format(time.DateOnly))

	case KindNumber, KindRange:
		s, ok := numericString(value)
		if !ok {
			return &TypeMismatchError{Field: name, Expected: "number", Value: value}
		}
		err = dom.WriteValue(el, s)

	default:
		s, ok := value.(string)
		if !ok {
			return &TypeMismatchError{Field: name, Expected: "string", Value: value}
		}
		err = dom.WriteValue(el, s)
	}

	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// numericString formats a number, or accepts a string that parses as one.
func numericString(v Value) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return "", false
		}
		return n, true
	default:
		return "", false
	}
}
