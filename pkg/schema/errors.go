package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFieldType reports a declared field type outside the
	// text/boolean kinds and their optional wrappers.
	ErrUnsupportedFieldType = errors.New("schema: unsupported field type")
	// ErrInvalidSchema reports a schema without a name or without fields.
	ErrInvalidSchema = errors.New("schema: invalid schema")
	// ErrInvalidField reports a field declaration without a usable name.
	ErrInvalidField = errors.New("schema: invalid field")
	// ErrDuplicateField reports two fields sharing a name or a class name.
	ErrDuplicateField = errors.New("schema: duplicate field")
	// ErrInvalidDefault reports a default value that does not fit its kind.
	ErrInvalidDefault = errors.New("schema: invalid default")
	// ErrInvalidValue reports a value that cannot be coerced to a field kind.
	ErrInvalidValue = errors.New("schema: invalid value")
)

// UnsupportedFieldTypeError names the field whose declared type could not be
// classified.
type UnsupportedFieldTypeError struct {
	Schema string
	Field  string
	Type   string
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("schema %q: field %q: unsupported field type %q", e.Schema, e.Field, e.Type)
}

// Is lets errors.Is match ErrUnsupportedFieldType.
func (e *UnsupportedFieldTypeError) Is(target error) bool {
	return target == ErrUnsupportedFieldType
}
