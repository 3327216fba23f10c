// Package record holds the immutable value a form submission produces.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formulay/pkg/schema"
)

// ErrSchemaMismatch reports values that do not line up with the schema.
var ErrSchemaMismatch = errors.New("record: values do not match schema")

// ErrDecode reports a destination Decode cannot fill.
var ErrDecode = errors.New("record: cannot decode")

// Record is one value per schema field, frozen at submission time. Required
// fields are always present; optional fields are present or absent. The zero
// Record has no schema and no fields.
type Record struct {
	schema *schema.FormSchema
	values []schema.Value
}

// New freezes values, given in schema order, into a Record. Every value must
// be accepted by its field kind.
func New(s *schema.FormSchema, values []schema.Value) (Record, error) {
	if s == nil {
		return Record{}, fmt.Errorf("%w: schema is nil", ErrSchemaMismatch)
	}
	if len(values) != s.Len() {
		return Record{}, fmt.Errorf("%w: got %d values for %d fields", ErrSchemaMismatch, len(values), s.Len())
	}
	for i, value := range values {
		field := s.FieldAt(i)
		if !field.Kind.Accepts(value) {
			return Record{}, fmt.Errorf("%w: field %q (%s) cannot hold %s", ErrSchemaMismatch, field.Name, field.Kind, value)
		}
	}
	return Record{schema: s, values: append([]schema.Value(nil), values...)}, nil
}

// Schema returns the schema the record conforms to.
func (r Record) Schema() *schema.FormSchema { return r.schema }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// Get returns the value of a field.
func (r Record) Get(name string) (schema.Value, bool) {
	idx, ok := r.schema.Index(name)
	if !ok || idx >= len(r.values) {
		return schema.Absent(), false
	}
	return r.values[idx], true
}

// Present reports whether a field holds a value. Required fields always do.
func (r Record) Present(name string) bool {
	value, ok := r.Get(name)
	return ok && value.Present()
}

// Text returns a text field's value; ok is false when the field is unknown,
// absent or not text.
func (r Record) Text(name string) (string, bool) {
	value, ok := r.Get(name)
	if !ok || !value.IsText() {
		return "", false
	}
	return value.Text(), true
}

// Bool returns a boolean field's value; ok is false when the field is
// unknown, absent or not boolean.
func (r Record) Bool(name string) (bool, bool) {
	value, ok := r.Get(name)
	if !ok || !value.IsBool() {
		return false, false
	}
	return value.Bool(), true
}

// Values returns the record as a name keyed map holding string, bool or nil
// for absent fields. The map is suitable as initial values for a new form.
func (r Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, value := range r.values {
		out[r.schema.FieldAt(i).Name] = value.Any()
	}
	return out
}

// Slice returns a copy of the values in schema order.
func (r Record) Slice() []schema.Value {
	return append([]schema.Value(nil), r.values...)
}

// Equal reports whether both records share a schema and hold equal values.
func (r Record) Equal(other Record) bool {
	if r.schema != other.schema || len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if r.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as an object in schema order. Absent fields
// encode as null.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, value := range r.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.schema.FieldAt(i).Name)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value.Any())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode copies the record into dst. When dst points to a struct, fields are
// matched by the same `form` tag rules schema.FromStruct uses, so a record
// from a struct-declared schema decodes back into that struct. Optional
// fields map onto pointer fields and absent values leave them nil. Struct
// fields with no matching schema field are left untouched. Any other
// destination is filled from the record's JSON encoding.
func (r Record) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrDecode, dst)
	}
	target := rv.Elem()
	if target.Kind() != reflect.Struct {
		return r.decodeJSON(dst)
	}

	rt := target.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, ok := schema.StructFieldName(rt.Field(i))
		if !ok {
			continue
		}
		value, ok := r.Get(name)
		if !ok {
			continue
		}
		if err := assign(target.Field(i), value); err != nil {
			return fmt.Errorf("record: decode field %q: %w", name, err)
		}
	}
	return nil
}

func (r Record) decodeJSON(dst any) error {
	payload, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("record: encode: %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("record: decode: %w", err)
	}
	return nil
}

func assign(field reflect.Value, value schema.Value) error {
	if field.Kind() == reflect.Pointer {
		if !value.Present() {
			field.SetZero()
			return nil
		}
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch {
	case value.IsText() && field.Kind() == reflect.String:
		field.SetString(value.Text())
	case value.IsBool() && field.Kind() == reflect.Bool:
		field.SetBool(value.Bool())
	case !value.Present():
		field.SetZero()
	default:
		return fmt.Errorf("%w: cannot store %s in %s", ErrDecode, value, field.Type())
	}
	return nil
}
