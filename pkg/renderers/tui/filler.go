// Package tui is a terminal host for forms. It walks the render tree of a
// form, prompts for every bound control and dispatches the answers as control
// events, so terminal and HTML hosts drive the same state machine.
package tui

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
)

// Filler prompts for form values and submits the form.
type Filler struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

// New constructs a Filler with defaults (survey driver, JSON output).
func New(options ...Option) *Filler {
	f := &Filler{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver()
	}
	return f
}

// ContentType reports the serialization format used by Encode.
func (f *Filler) ContentType() string {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// fieldPrompt groups the nodes the assembler emits for one field.
type fieldPrompt struct {
	field    string
	label    string
	help     string
	control  *render.Node
	presence *render.Node
}

// Fill prompts for every field of target in order, dispatches the answers and
// submits. Optional fields are asked for presence first; the value prompt is
// skipped when the user leaves the field out.
func (f *Filler) Fill(ctx context.Context, target *form.Form) (record.Record, error) {
	if f.driver == nil {
		return record.Record{}, ErrNoDriver
	}
	if err := ctx.Err(); err != nil {
		return record.Record{}, err
	}

	for _, prompt := range collect(target.Render()) {
		if err := f.promptField(ctx, target, prompt); err != nil {
			return record.Record{}, err
		}
	}
	return target.Submit(nil), nil
}

func (f *Filler) promptField(ctx context.Context, target *form.Form, prompt fieldPrompt) error {
	if prompt.presence != nil {
		_, current := prompt.presence.Attr("checked")
		present, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: f.message("Provide " + prompt.label + "?"),
			Default: current,
			Help:    prompt.help,
		})
		if err != nil {
			return err
		}
		if err := target.Dispatch(form.Event{
			Control: prompt.presence.Binding.Control,
			Type:    render.EventPresence,
			Checked: present,
		}); err != nil {
			return err
		}
		if !present {
			return nil
		}
	}

	control := prompt.control
	switch control.Binding.Event {
	case render.EventChange:
		_, current := control.Attr("checked")
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: f.message(prompt.label),
			Default: current,
			Help:    prompt.help,
		})
		if err != nil {
			return err
		}
		return target.Dispatch(form.Event{Control: control.Binding.Control, Type: render.EventChange, Checked: checked})
	default:
		current, _ := control.Attr("value")
		value, err := f.driver.Input(ctx, InputConfig{
			Message: f.message(prompt.label),
			Default: current,
			Help:    prompt.help,
		})
		if err != nil {
			return err
		}
		return target.Dispatch(form.Event{Control: control.Binding.Control, Type: render.EventInput, Value: value})
	}
}

// Report prints the encoded record through the driver.
func (f *Filler) Report(ctx context.Context, rec record.Record) error {
	payload, err := f.Encode(rec)
	if err != nil {
		return err
	}
	return f.driver.Info(ctx, f.theme.InfoPrefix+string(payload))
}

// Encode serializes rec in the configured output format.
func (f *Filler) Encode(rec record.Record) ([]byte, error) {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(formEncode(rec)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(rec)), nil
	default:
		payload, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("tui: encode record: %w", err)
		}
		return payload, nil
	}
}

func (f *Filler) message(text string) string {
	return f.theme.PromptPrefix + text
}

func collect(tree *render.Node) []fieldPrompt {
	var (
		out     []fieldPrompt
		byField = map[string]int{}
		labels  = map[string]string{}
	)
	for _, node := range tree.Children {
		if node.Tag == "label" {
			target, _ := node.Attr("for")
			labels[target] = node.Text
			continue
		}
		if node.Binding == nil {
			if node.Markup != "" && len(out) > 0 {
				out[len(out)-1].help = plainText(node.Markup)
			}
			continue
		}

		binding := node.Binding
		idx, seen := byField[binding.Field]
		if !seen {
			idx = len(out)
			byField[binding.Field] = idx
			out = append(out, fieldPrompt{field: binding.Field, label: binding.Field})
		}
		switch binding.Event {
		case render.EventPresence:
			out[idx].presence = node
		default:
			out[idx].control = node
			id, _ := node.Attr("id")
			if label, ok := labels[id]; ok {
				out[idx].label = label
			}
		}
	}
	return out
}

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

// plainText drops the markup of a help fragment for terminal display.
func plainText(markup string) string {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(markup)))
}

func formEncode(rec record.Record) string {
	values := url.Values{}
	for i, value := range rec.Slice() {
		field := rec.Schema().FieldAt(i)
		if field.Kind.Optional() {
			if !value.Present() {
				continue
			}
			values.Set(render.PresenceControl(field.Name), "true")
		}
		switch {
		case value.IsBool() && value.Bool():
			values.Set(field.Name, "true")
		case value.IsText():
			values.Set(field.Name, value.Text())
		}
	}
	return values.Encode()
}

func prettyPrint(rec record.Record) string {
	var b strings.Builder
	for i, value := range rec.Slice() {
		fmt.Fprintf(&b, "%s=%s\n", rec.Schema().FieldAt(i).Name, value)
	}
	return b.String()
}
