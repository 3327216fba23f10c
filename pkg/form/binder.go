package form

import (
	"fmt"

	"github.com/goliatone/go-formulay/pkg/draft"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/schema"
)

// Event is a host control event routed to the form.
type Event struct {
	// Control is the name carried by the rendered binding.
	Control string
	Type    render.EventType
	// Value is read by text controls.
	Value string
	// Checked is read by checkbox and presence controls.
	Checked bool
}

type handler func(*draft.Store, Event) error

// binder maps each control name to its single mutation entry point.
type binder map[string]handler

func bind(s *schema.FormSchema) binder {
	b := make(binder, s.Len()*2)
	for _, field := range s.Fields() {
		name := field.Name
		switch field.Kind.Base() {
		case schema.KindBoolean:
			b[name] = func(store *draft.Store, ev Event) error {
				return store.SetBool(name, ev.Checked)
			}
		default:
			b[name] = func(store *draft.Store, ev Event) error {
				return store.SetText(name, ev.Value)
			}
		}
		if field.Kind.Optional() {
			b[render.PresenceControl(name)] = func(store *draft.Store, ev Event) error {
				return store.SetPresence(name, ev.Checked)
			}
		}
	}
	return b
}

// Controls lists the control names the form accepts, in schema order.
func (f *Form) Controls() []string {
	out := make([]string, 0, len(f.binder))
	for _, field := range f.schema.Fields() {
		out = append(out, field.Name)
		if field.Kind.Optional() {
			out = append(out, render.PresenceControl(field.Name))
		}
	}
	return out
}

// Dispatch routes ev to the mutation bound to its control and re-renders.
func (f *Form) Dispatch(ev Event) error {
	fn, ok := f.binder[ev.Control]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, ev.Control)
	}
	if err := fn(f.store, ev); err != nil {
		return err
	}
	f.rendered()
	return nil
}
