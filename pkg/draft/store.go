// Package draft holds the live values of one form instance. A Store keeps
// exactly one value per schema field, in schema order, and moves each field
// through its state machine:
//
//	required:  Value(v) --edit--> Value(v')
//	optional:  Absent  --toggle--> Present(default) --toggle--> Absent
//	           Present(v) --edit--> Present(v')
//	           Absent  --edit--> Present(v')
//
// A Store is owned by a single form instance and is not safe for concurrent
// use.
package draft

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/schema"
)

var (
	// ErrUnknownField reports a field name the schema does not declare.
	ErrUnknownField = errors.New("draft: unknown field")
	// ErrInvalidValue reports an initial value that does not fit its field.
	ErrInvalidValue = errors.New("draft: invalid value")
)

// Store is the draft state of one form instance.
type Store struct {
	schema *schema.FormSchema
	seed   []schema.Value
	values []schema.Value
}

// New seeds a store from the schema defaults, overridden by initial. Initial
// values accept the shapes understood by schema.Coerce.
func New(s *schema.FormSchema, initial map[string]any) (*Store, error) {
	if s == nil {
		return nil, errors.New("draft: schema is nil")
	}

	seed := make([]schema.Value, s.Len())
	for i := range seed {
		seed[i] = s.FieldAt(i).Default
	}

	for name, raw := range initial {
		idx, ok := s.Index(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		field := s.FieldAt(idx)
		value, err := schema.Coerce(field.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidValue, name, err)
		}
		seed[idx] = value
	}

	return &Store{
		schema: s,
		seed:   seed,
		values: append([]schema.Value(nil), seed...),
	}, nil
}

// FromRecord seeds a store from a submitted record.
func FromRecord(rec record.Record) (*Store, error) {
	if rec.Schema() == nil {
		return nil, errors.New("draft: record has no schema")
	}
	return New(rec.Schema(), rec.Values())
}

// Schema returns the owning schema.
func (s *Store) Schema() *schema.FormSchema { return s.schema }

// Value returns the current value of a field.
func (s *Store) Value(name string) (schema.Value, bool) {
	idx, ok := s.schema.Index(name)
	if !ok {
		return schema.Absent(), false
	}
	return s.values[idx], true
}

// Values returns a copy of the current values in schema order.
func (s *Store) Values() []schema.Value {
	return append([]schema.Value(nil), s.values...)
}

// SetText edits a text field. Editing an absent optional field makes it
// present. Non-text fields ignore the edit.
func (s *Store) SetText(name, text string) error {
	idx, field, err := s.lookup(name)
	if err != nil {
		return err
	}
	if field.Kind.Base() != schema.KindText {
		return nil
	}
	s.values[idx] = schema.TextValue(text)
	return nil
}

// SetBool edits a boolean field. Editing an absent optional field makes it
// present. Non-boolean fields ignore the edit.
func (s *Store) SetBool(name string, checked bool) error {
	idx, field, err := s.lookup(name)
	if err != nil {
		return err
	}
	if field.Kind.Base() != schema.KindBoolean {
		return nil
	}
	s.values[idx] = schema.BoolValue(checked)
	return nil
}

// SetPresence moves an optional field to Absent or Present. Entering Present
// from Absent uses the field's declared default when it is present, else the
// zero value of the kind; an already present field keeps its value. Required
// fields are always present and ignore the call.
func (s *Store) SetPresence(name string, present bool) error {
	idx, field, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !field.Kind.Optional() {
		return nil
	}
	current := s.values[idx]
	switch {
	case !present:
		s.values[idx] = schema.Absent()
	case !current.Present():
		s.values[idx] = presentDefault(field)
	}
	return nil
}

// TogglePresence flips an optional field between Absent and Present.
func (s *Store) TogglePresence(name string) error {
	current, ok := s.Value(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return s.SetPresence(name, !current.Present())
}

// Reset restores the values the store was seeded with.
func (s *Store) Reset() {
	copy(s.values, s.seed)
}

// Snapshot freezes the current values into a record.
func (s *Store) Snapshot() record.Record {
	rec, err := record.New(s.schema, s.values)
	if err != nil {
		// Transitions only ever store values accepted by their kind.
		panic(fmt.Sprintf("draft: inconsistent state: %v", err))
	}
	return rec
}

func (s *Store) lookup(name string) (int, schema.FieldDescriptor, error) {
	idx, ok := s.schema.Index(name)
	if !ok {
		return 0, schema.FieldDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return idx, s.schema.FieldAt(idx), nil
}

func presentDefault(field schema.FieldDescriptor) schema.Value {
	if field.Default.Present() {
		return field.Default
	}
	return field.Kind.BaseZero()
}
