package draft

import (
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formulay/pkg/schema"
)

// ErrInvalidPatch reports a patch that cannot be applied to the draft.
var ErrInvalidPatch = errors.New("draft: invalid patch")

// Document returns the draft as a name keyed map of string, bool or nil.
func (s *Store) Document() map[string]any {
	out := make(map[string]any, len(s.values))
	for i, value := range s.values {
		out[s.schema.FieldAt(i).Name] = value.Any()
	}
	return out
}

// MarshalJSON encodes the draft as an ordered object; absent fields are null.
func (s *Store) MarshalJSON() ([]byte, error) {
	return s.Snapshot().MarshalJSON()
}

// Patch applies an RFC 6902 patch to the JSON form of the draft. Removing or
// nulling an optional field makes it absent. The patch is atomic: when any
// resulting field is unknown, missing or of the wrong shape the draft is left
// unchanged and ErrInvalidPatch is returned.
func (s *Store) Patch(ops []byte) error {
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return fmt.Errorf("%w: decode: %v", ErrInvalidPatch, err)
	}

	current, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("draft: encode state: %w", err)
	}
	modified, err := patch.Apply(current)
	if err != nil {
		return fmt.Errorf("%w: apply: %v", ErrInvalidPatch, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(modified, &doc); err != nil {
		return fmt.Errorf("%w: result is not an object: %v", ErrInvalidPatch, err)
	}
	for name := range doc {
		if _, ok := s.schema.Index(name); !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidPatch, ErrUnknownField, name)
		}
	}

	next := make([]schema.Value, len(s.values))
	for i := range next {
		field := s.schema.FieldAt(i)
		value, err := schema.Coerce(field.Kind, doc[field.Name])
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidPatch, field.Name, err)
		}
		next[i] = value
	}
	copy(s.values, next)
	return nil
}
