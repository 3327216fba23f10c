package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formulay/internal/naming"
)

// FieldOption customises a single field declaration.
type FieldOption func(*fieldDecl)

type fieldDecl struct {
	name       string
	declared   string
	kind       FieldKind
	def        any
	hasDefault bool
	label      string
	help       string
}

// WithDefault sets the field default. The value is coerced with Coerce when
// the schema is built.
func WithDefault(value any) FieldOption {
	return func(d *fieldDecl) {
		d.def = value
		d.hasDefault = true
	}
}

// WithLabel overrides the derived label text.
func WithLabel(label string) FieldOption {
	return func(d *fieldDecl) {
		d.label = strings.TrimSpace(label)
	}
}

// WithHelp attaches help markup shown next to the control.
func WithHelp(help string) FieldOption {
	return func(d *fieldDecl) {
		d.help = strings.TrimSpace(help)
	}
}

// Builder accumulates field declarations. Declaration errors are collected and
// reported together by Build, so a schema is either fully valid or never
// constructed.
type Builder struct {
	name   string
	fields []fieldDecl
}

// New starts a schema declaration.
func New(name string) *Builder {
	return &Builder{name: strings.TrimSpace(name)}
}

// Text declares a required text field.
func (b *Builder) Text(name string, opts ...FieldOption) *Builder {
	return b.add(name, "", KindText, opts)
}

// Bool declares a required boolean field.
func (b *Builder) Bool(name string, opts ...FieldOption) *Builder {
	return b.add(name, "", KindBoolean, opts)
}

// OptionalText declares an optional text field.
func (b *Builder) OptionalText(name string, opts ...FieldOption) *Builder {
	return b.add(name, "", KindOptionalText, opts)
}

// OptionalBool declares an optional boolean field.
func (b *Builder) OptionalBool(name string, opts ...FieldOption) *Builder {
	return b.add(name, "", KindOptionalBoolean, opts)
}

// Field declares a field by its declared type name (see ParseKind). The type
// is classified when Build runs.
func (b *Builder) Field(name, declaredType string, opts ...FieldOption) *Builder {
	return b.add(name, declaredType, 0, opts)
}

func (b *Builder) add(name, declared string, kind FieldKind, opts []FieldOption) *Builder {
	decl := fieldDecl{
		name:     strings.TrimSpace(name),
		declared: declared,
		kind:     kind,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&decl)
	}
	b.fields = append(b.fields, decl)
	return b
}

// Build classifies every declaration and returns the immutable schema.
func (b *Builder) Build() (*FormSchema, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: builder is nil", ErrInvalidSchema)
	}

	var errs []error
	if b.name == "" {
		errs = append(errs, fmt.Errorf("%w: name is required", ErrInvalidSchema))
	}
	if len(b.fields) == 0 {
		errs = append(errs, fmt.Errorf("%w: schema %q declares no fields", ErrInvalidSchema, b.name))
	}

	out := &FormSchema{
		name:   b.name,
		fields: make([]FieldDescriptor, 0, len(b.fields)),
		index:  make(map[string]int, len(b.fields)),
	}
	classNames := make(map[string]string, len(b.fields))

	for _, decl := range b.fields {
		field, err := b.describe(decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := out.index[field.Name]; exists {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateField, field.Name))
			continue
		}
		kebab := naming.Kebab(field.Name)
		if other, exists := classNames[kebab]; exists {
			errs = append(errs, fmt.Errorf("%w: %q and %q share class name %q", ErrDuplicateField, other, field.Name, kebab))
			continue
		}
		classNames[kebab] = field.Name
		out.index[field.Name] = len(out.fields)
		out.fields = append(out.fields, field)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// MustBuild is Build for package-level declarations; it panics on error.
func (b *Builder) MustBuild() *FormSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Builder) describe(decl fieldDecl) (FieldDescriptor, error) {
	if decl.name == "" {
		return FieldDescriptor{}, fmt.Errorf("%w: schema %q: field name is required", ErrInvalidField, b.name)
	}
	if len(naming.Words(decl.name)) == 0 {
		return FieldDescriptor{}, fmt.Errorf("%w: schema %q: field name %q has no words", ErrInvalidField, b.name, decl.name)
	}

	kind := decl.kind
	if kind == 0 {
		parsed, ok := ParseKind(decl.declared)
		if !ok {
			return FieldDescriptor{}, &UnsupportedFieldTypeError{Schema: b.name, Field: decl.name, Type: decl.declared}
		}
		kind = parsed
	}

	field := FieldDescriptor{
		Name:    decl.name,
		Kind:    kind,
		Default: kind.Zero(),
		Label:   decl.label,
		Help:    decl.help,
	}
	if decl.hasDefault {
		value, err := Coerce(kind, decl.def)
		if err != nil {
			return FieldDescriptor{}, fmt.Errorf("%w: schema %q: field %q: %v", ErrInvalidDefault, b.name, decl.name, err)
		}
		field.Default = value
	}
	return field, nil
}
