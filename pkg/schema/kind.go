package schema

import "strings"

// FieldKind is the closed set of value shapes a field can take.
type FieldKind uint8

const (
	KindText FieldKind = iota + 1
	KindBoolean
	KindOptionalText
	KindOptionalBoolean
)

// Valid reports whether k is one of the four declared kinds.
func (k FieldKind) Valid() bool {
	return k >= KindText && k <= KindOptionalBoolean
}

// Optional reports whether the kind carries an explicit absent state.
func (k FieldKind) Optional() bool {
	return k == KindOptionalText || k == KindOptionalBoolean
}

// Base strips the optional wrapper.
func (k FieldKind) Base() FieldKind {
	switch k {
	case KindOptionalText:
		return KindText
	case KindOptionalBoolean:
		return KindBoolean
	default:
		return k
	}
}

// Optionalize wraps a base kind as optional.
func (k FieldKind) Optionalize() FieldKind {
	switch k {
	case KindText:
		return KindOptionalText
	case KindBoolean:
		return KindOptionalBoolean
	default:
		return k
	}
}

// Zero is the value a field of this kind holds when nothing else is declared:
// empty text, false, or Absent for optional kinds.
func (k FieldKind) Zero() Value {
	switch k {
	case KindText:
		return TextValue("")
	case KindBoolean:
		return BoolValue(false)
	default:
		return Absent()
	}
}

// BaseZero is the zero value of the underlying kind, ignoring optionality.
func (k FieldKind) BaseZero() Value {
	return k.Base().Zero()
}

// Accepts reports whether v is a legal value for a field of this kind.
func (k FieldKind) Accepts(v Value) bool {
	if !v.Present() {
		return k.Optional()
	}
	switch k.Base() {
	case KindText:
		return v.IsText()
	case KindBoolean:
		return v.IsBool()
	default:
		return false
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindOptionalText:
		return "optional<text>"
	case KindOptionalBoolean:
		return "optional<boolean>"
	default:
		return "invalid"
	}
}

// ParseKind classifies a declared type name. Text-like names are "string" and
// "text"; boolean-like names are "bool" and "boolean". Optional wrappers are
// written "optional<T>", "option<T>", "?T", "T?" or "*T".
func ParseKind(declared string) (FieldKind, bool) {
	name := strings.ToLower(strings.TrimSpace(declared))
	optional := false
	switch {
	case strings.HasPrefix(name, "optional<") && strings.HasSuffix(name, ">"):
		name, optional = name[len("optional<"):len(name)-1], true
	case strings.HasPrefix(name, "option<") && strings.HasSuffix(name, ">"):
		name, optional = name[len("option<"):len(name)-1], true
	case strings.HasPrefix(name, "?"), strings.HasPrefix(name, "*"):
		name, optional = name[1:], true
	case strings.HasSuffix(name, "?"):
		name, optional = name[:len(name)-1], true
	}

	var kind FieldKind
	switch strings.TrimSpace(name) {
	case "string", "text":
		kind = KindText
	case "bool", "boolean":
		kind = KindBoolean
	default:
		return 0, false
	}
	if optional {
		kind = kind.Optionalize()
	}
	return kind, true
}
