package schema

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Document is the YAML/JSON declaration format:
//
//	name: signup
//	fields:
//	  - name: email
//	    type: string
//	    label: Email address
//	  - name: nickname
//	    type: optional<string>
type Document struct {
	Name   string          `yaml:"name" json:"name"`
	Fields []DocumentField `yaml:"fields" json:"fields"`
}

// DocumentField declares one field inside a Document.
type DocumentField struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Help    string `yaml:"help,omitempty" json:"help,omitempty"`
	Default any    `yaml:"default,omitempty" json:"default,omitempty"`
	// hasDefault distinguishes an explicit `default: null` from no default.
	hasDefault bool
}

// UnmarshalYAML records whether a default key was present.
func (f *DocumentField) UnmarshalYAML(node *yaml.Node) error {
	type plain DocumentField
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*f = DocumentField(decoded)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "default" {
				f.hasDefault = true
				break
			}
		}
	}
	return nil
}

// Parse builds a schema from a YAML or JSON declaration document.
func Parse(data []byte) (*FormSchema, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode document: %w", err)
	}
	return doc.Build()
}

// Load reads and parses a declaration document from fsys.
func Load(fsys fs.FS, path string) (*FormSchema, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: filesystem is nil", ErrInvalidSchema)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return s, nil
}

// Build declares every document field on a Builder.
func (d Document) Build() (*FormSchema, error) {
	builder := New(d.Name)
	for _, field := range d.Fields {
		opts := []FieldOption{WithLabel(field.Label), WithHelp(field.Help)}
		if field.hasDefault || field.Default != nil {
			opts = append(opts, WithDefault(field.Default))
		}
		builder.Field(field.Name, field.Type, opts...)
	}
	return builder.Build()
}
