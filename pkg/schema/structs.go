package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formulay/internal/naming"
)

const structTag = "form"

// For declares a schema from the exported fields of struct type T. See
// FromStruct for the mapping rules.
func For[T any](name string) (*FormSchema, error) {
	var zero T
	return fromType(name, reflect.TypeOf(&zero).Elem())
}

// FromStruct declares a schema from the exported fields of v, which must be a
// struct or a pointer to one. Fields of string kind become text fields, bool
// kind become boolean fields, and pointers to either become optional. Any
// other field type fails with ErrUnsupportedFieldType.
//
// The `form` tag controls the mapping:
//
//	Email    string  `form:"email,label=Email address,help=We never share it"`
//	Internal string  `form:"-"`
//	Nickname *string `form:",default=anon"`
//
// Without a tag name the json tag name is used, then the lower camel Go name.
// When name is empty the schema is named after the struct type.
func FromStruct(name string, v any) (*FormSchema, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: struct value is nil", ErrInvalidSchema)
	}
	return fromType(name, reflect.TypeOf(v))
}

func fromType(name string, rt reflect.Type) (*FormSchema, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidSchema, rt)
	}
	if strings.TrimSpace(name) == "" {
		name = naming.LowerCamel(rt.Name())
	}

	builder := New(name)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, ok := parseStructTag(sf)
		if !ok {
			continue
		}

		kind, supported := kindOfType(sf.Type)
		opts := tag.options()
		if !supported {
			// Declared type carries the Go type so the error names it.
			builder.add(tag.name, sf.Type.String(), 0, opts)
			continue
		}
		builder.add(tag.name, "", kind, opts)
	}
	return builder.Build()
}

func kindOfType(rt reflect.Type) (FieldKind, bool) {
	optional := false
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
		optional = true
	}
	var kind FieldKind
	switch rt.Kind() {
	case reflect.String:
		kind = KindText
	case reflect.Bool:
		kind = KindBoolean
	default:
		return 0, false
	}
	if optional {
		kind = kind.Optionalize()
	}
	return kind, true
}

type structTagSpec struct {
	name       string
	label      string
	help       string
	def        string
	hasDefault bool
}

func (t structTagSpec) options() []FieldOption {
	opts := []FieldOption{WithLabel(t.label), WithHelp(t.help)}
	if t.hasDefault {
		opts = append(opts, WithDefault(t.def))
	}
	return opts
}

func parseStructTag(sf reflect.StructField) (structTagSpec, bool) {
	raw, hasTag := sf.Tag.Lookup(structTag)
	if hasTag && strings.TrimSpace(raw) == "-" {
		return structTagSpec{}, false
	}

	var parsed structTagSpec
	if hasTag {
		parts := strings.Split(raw, ",")
		parsed.name = strings.TrimSpace(parts[0])
		for _, part := range parts[1:] {
			key, value, _ := strings.Cut(part, "=")
			switch strings.TrimSpace(key) {
			case "label":
				parsed.label = value
			case "help":
				parsed.help = value
			case "default":
				parsed.def = value
				parsed.hasDefault = true
			}
		}
	}

	if parsed.name == "" {
		if jsonName, _, _ := strings.Cut(sf.Tag.Get("json"), ","); jsonName != "" && jsonName != "-" {
			parsed.name = jsonName
		}
	}
	if parsed.name == "" {
		parsed.name = naming.LowerCamel(sf.Name)
	}
	return parsed, true
}

// StructFieldName returns the schema field name sf maps to under the `form`
// tag rules FromStruct applies. It reports false for unexported fields and
// fields tagged `form:"-"`.
func StructFieldName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}
	tag, ok := parseStructTag(sf)
	if !ok {
		return "", false
	}
	return tag.name, true
}
