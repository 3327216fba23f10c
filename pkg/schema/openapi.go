package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OrderExtension lists property names in rendering order on an OpenAPI object
// schema. Properties missing from the list follow in the default order.
const OrderExtension = "x-formulay-order"

// LoadOpenAPI parses an OpenAPI document and declares a schema from the named
// component schema.
func LoadOpenAPI(ctx context.Context, data []byte, component string) (*FormSchema, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	return FromOpenAPI(doc, component)
}

// FromOpenAPI declares a schema from doc.components.schemas[component]. String
// properties become text fields, boolean properties become boolean fields,
// and properties that are not required (or are nullable) become optional. Any
// other property type fails with ErrUnsupportedFieldType.
func FromOpenAPI(doc *openapi3.T, component string) (*FormSchema, error) {
	if doc == nil || doc.Components == nil {
		return nil, fmt.Errorf("%w: openapi document has no components", ErrInvalidSchema)
	}
	ref := doc.Components.Schemas[component]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: component schema %q not found", ErrInvalidSchema, component)
	}
	return FromOpenAPISchema(component, ref.Value)
}

// FromOpenAPISchema declares a schema from an object schema.
func FromOpenAPISchema(name string, src *openapi3.Schema) (*FormSchema, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: schema %q is nil", ErrInvalidSchema, name)
	}

	required := make(map[string]bool, len(src.Required))
	for _, prop := range src.Required {
		required[prop] = true
	}

	builder := New(name)
	for _, prop := range propertyOrder(src, required) {
		ref := src.Properties[prop]
		if ref == nil || ref.Value == nil {
			unresolved := "unresolved"
			if ref != nil && ref.Ref != "" {
				unresolved = ref.Ref
			}
			builder.Field(prop, unresolved)
			continue
		}
		value := ref.Value

		declared, nullable := propertyType(value.Type)
		opts := []FieldOption{WithLabel(value.Title), WithHelp(value.Description)}
		if _, ok := ParseKind(declared); ok && (!required[prop] || nullable || value.Nullable) {
			declared = "optional<" + declared + ">"
		}
		if value.Default != nil {
			opts = append(opts, WithDefault(value.Default))
		}
		builder.Field(prop, declared, opts...)
	}
	return builder.Build()
}

func propertyOrder(src *openapi3.Schema, required map[string]bool) []string {
	names := make([]string, 0, len(src.Properties))
	for prop := range src.Properties {
		names = append(names, prop)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	raw, ok := src.Extensions[OrderExtension].([]any)
	if !ok || len(raw) == 0 {
		return names
	}

	ordered := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, entry := range raw {
		prop, ok := entry.(string)
		if !ok || seen[prop] {
			continue
		}
		if _, exists := src.Properties[prop]; !exists {
			continue
		}
		seen[prop] = true
		ordered = append(ordered, prop)
	}
	for _, prop := range names {
		if !seen[prop] {
			ordered = append(ordered, prop)
		}
	}
	return ordered
}

// propertyType flattens the declared type list. A 3.1 style ["string",
// "null"] pair is reported as a nullable string.
func propertyType(types *openapi3.Types) (string, bool) {
	if types == nil {
		return "", false
	}
	var (
		values   []string
		nullable bool
	)
	for _, value := range types.Slice() {
		if value == "null" {
			nullable = true
			continue
		}
		values = append(values, value)
	}
	return strings.Join(values, ","), nullable
}
