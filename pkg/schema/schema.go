package schema

import "github.com/goliatone/go-formulay/internal/naming"

// FieldDescriptor describes one declared field.
type FieldDescriptor struct {
	Name    string
	Kind    FieldKind
	Default Value
	// Label overrides the label derived from Name when non-empty.
	Label string
	// Help is optional markup rendered next to the control. Renderers sanitize
	// it before output.
	Help string
}

// Required reports whether the field must always hold a value.
func (f FieldDescriptor) Required() bool {
	return !f.Kind.Optional()
}

// DisplayLabel returns Label, falling back to a title-cased rendering of Name.
func (f FieldDescriptor) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return naming.Label(f.Name)
}

// FormSchema is an immutable, ordered field list plus the schema name used for
// class derivation. It is safe for concurrent use by any number of forms.
type FormSchema struct {
	name   string
	fields []FieldDescriptor
	index  map[string]int
}

// Name returns the schema name.
func (s *FormSchema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Len returns the number of fields.
func (s *FormSchema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Fields returns a copy of the descriptors in declaration order.
func (s *FormSchema) Fields() []FieldDescriptor {
	if s == nil {
		return nil
	}
	return append([]FieldDescriptor(nil), s.fields...)
}

// FieldAt returns the descriptor at position i.
func (s *FormSchema) FieldAt(i int) FieldDescriptor {
	return s.fields[i]
}

// Field looks up a descriptor by name.
func (s *FormSchema) Field(name string) (FieldDescriptor, bool) {
	idx, ok := s.Index(name)
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[idx], true
}

// Index returns the declaration position of name.
func (s *FormSchema) Index(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	idx, ok := s.index[name]
	return idx, ok
}

// Defaults returns the declared default of every field keyed by name.
func (s *FormSchema) Defaults() map[string]Value {
	if s == nil {
		return nil
	}
	out := make(map[string]Value, len(s.fields))
	for _, field := range s.fields {
		out[field.Name] = field.Default
	}
	return out
}
