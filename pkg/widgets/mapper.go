// Package widgets maps field kinds onto control archetypes. It only declares
// control shape; state lives in the draft store.
package widgets

import "github.com/goliatone/go-formulay/pkg/schema"

// Archetype identifies a control family. The string form doubles as the
// kind token in generated class names (formula-y-txt-input).
type Archetype string

const (
	ArchetypeText     Archetype = "txt"
	ArchetypeCheckbox Archetype = "checkbox"
)

// Widget is the control shape chosen for a field.
type Widget struct {
	Archetype Archetype
	// InputType is the HTML input type attribute for the value control.
	InputType string
	// Optional fields expose a presence toggle independent of the value, so a
	// text control can be absent rather than present with "".
	Optional bool
}

// Display is the projection of a value onto a control.
type Display struct {
	Text    string
	Checked bool
	Present bool
}

// Map returns the widget for kind. Text kinds map to single-line text inputs,
// boolean kinds to checkboxes.
func Map(kind schema.FieldKind) Widget {
	w := Widget{Archetype: ArchetypeText, InputType: "text", Optional: kind.Optional()}
	if kind.Base() == schema.KindBoolean {
		w.Archetype = ArchetypeCheckbox
		w.InputType = "checkbox"
	}
	return w
}

// For maps a descriptor.
func For(field schema.FieldDescriptor) Widget {
	return Map(field.Kind)
}

// Display projects v onto the control. Absent values render as an empty,
// unchecked control with Present false.
func (w Widget) Display(v schema.Value) Display {
	d := Display{Present: v.Present()}
	switch w.Archetype {
	case ArchetypeCheckbox:
		d.Checked = v.Bool()
	default:
		d.Text = v.Text()
	}
	return d
}
