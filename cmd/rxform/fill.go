package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/zoobzio/rxform"
	"github.com/zoobzio/rxform/memdom"
)

// ErrTooManyAttempts is returned when the form is still invalid after the
// allowed number of submissions.
var ErrTooManyAttempts = errors.New("form still invalid")

// session fills one form through a prompt driver.
type session struct {
	doc      *rxform.Document
	driver   PromptDriver
	dom      *memdom.Document
	inputs   map[string][]*memdom.Element
	form     *rxform.Form
	values   rxform.SubmitValues
	errors   rxform.FormErrors
	attempts int
}

// buildDOM creates one element per option of radio fields and one element per
// other field. External fields get none.
func buildDOM(doc *rxform.Document) (*memdom.Document, map[string][]*memdom.Element) {
	dom := memdom.New()
	inputs := make(map[string][]*memdom.Element, len(doc.Fields))
	for _, s := range doc.Fields {
		if s.External {
			continue
		}
		switch s.Kind() {
		case rxform.KindRadio:
			for _, opt := range s.Options {
				inputs[s.Name] = append(inputs[s.Name], dom.Radio(s.Name, opt))
			}
		case rxform.KindSelect:
			inputs[s.Name] = []*memdom.Element{dom.Select(s.Name, s.Options...)}
		default:
			inputs[s.Name] = []*memdom.Element{dom.Input(s.Kind(), s.Name)}
		}
	}
	return dom, inputs
}

// fill prompts every field, submits, and re-prompts the failing fields until
// the form is accepted or attempts run out. The accepted values are written to
// out as JSON.
func fill(ctx context.Context, doc *rxform.Document, dec *rxform.Decorator, driver PromptDriver, out io.Writer, attempts int) error {
	s := &session{doc: doc, driver: driver, attempts: attempts}
	s.dom, s.inputs = buildDOM(doc)

	form, err := dec.Instance(nil, rxform.Handlers{
		OnSubmit: func(v rxform.SubmitValues) { s.values = v },
		OnError:  func(e rxform.FormErrors) { s.errors = e },
	})
	if err != nil {
		return err
	}
	if err := form.Mount(ctx, s.dom); err != nil {
		return err
	}
	defer form.Unmount()
	s.form = form

	names := make([]string, 0, len(doc.Fields))
	for _, spec := range doc.Fields {
		if !spec.External {
			names = append(names, spec.Name)
		}
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		for _, name := range names {
			if err := s.prompt(ctx, name); err != nil {
				return err
			}
		}

		s.errors = nil
		s.dom.Submit()
		if s.values != nil {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s.values)
		}

		names = failing(s.errors)
		for _, name := range names {
			if err := driver.Info(ctx, fmt.Sprintf("%s: %s", name, s.errors[name])); err != nil {
				return err
			}
		}
		names = promptable(doc, names)
		if len(names) == 0 {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrTooManyAttempts, s.errors)
}

// prompt asks for one field and fires the matching DOM interaction. The field
// error, if the new value has one, is shown right away.
func (s *session) prompt(ctx context.Context, name string) error {
	spec, _ := s.doc.Spec(name)
	els := s.inputs[name]
	current := s.form.State().FormValue[name].Value
	label := spec.DisplayLabel()

	switch spec.Kind() {
	case rxform.KindCheckbox:
		checked, _ := current.(bool)
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked})
		if err != nil {
			return err
		}
		if answer != checked {
			s.dom.Click(els[0])
		}

	case rxform.KindRadio, rxform.KindSelect:
		cur, _ := current.(string)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      spec.Options,
			DefaultIndex: indexOf(spec.Options, cur),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(spec.Options) {
			return fmt.Errorf("%s: no option selected", name)
		}
		if spec.Kind() == rxform.KindRadio {
			s.dom.Click(els[idx])
		} else if err := s.dom.Choose(els[0], spec.Options[idx]); err != nil {
			return err
		}

	case rxform.KindPassword:
		answer, err := s.driver.Password(ctx, InputConfig{Message: label})
		if err != nil {
			return err
		}
		s.dom.Type(els[0], answer)

	default:
		answer, err := s.driver.Input(ctx, InputConfig{Message: label, Default: display(current)})
		if err != nil {
			return err
		}
		s.dom.Type(els[0], answer)
	}

	if msg := s.form.State().FormValue[name].Error; msg != "" {
		return s.driver.Info(ctx, fmt.Sprintf("%s: %s", name, msg))
	}
	return nil
}

func display(v rxform.Value) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.DateOnly)
	}
	return fmt.Sprint(v)
}

func failing(errs rxform.FormErrors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// promptable drops external fields, which have no prompt.
func promptable(doc *rxform.Document, names []string) []string {
	out := names[:0]
	for _, name := range names {
		if spec, ok := doc.Spec(name); ok && !spec.External {
			out = append(out, name)
		}
	}
	return out
}
