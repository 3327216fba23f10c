package schema

import "strconv"

type valueTag uint8

const (
	tagAbsent valueTag = iota
	tagText
	tagBool
)

// Value is a single field value: Absent, Text(s) or Bool(b). The zero Value is
// Absent. Values are immutable and comparable with ==.
type Value struct {
	tag  valueTag
	text string
	flag bool
}

// Absent returns the value of an optional field that was not provided.
func Absent() Value { return Value{} }

// TextValue returns a present text value.
func TextValue(s string) Value { return Value{tag: tagText, text: s} }

// BoolValue returns a present boolean value.
func BoolValue(b bool) Value { return Value{tag: tagBool, flag: b} }

// Present reports whether the value is not Absent.
func (v Value) Present() bool { return v.tag != tagAbsent }

// IsText reports whether v holds text.
func (v Value) IsText() bool { return v.tag == tagText }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.tag == tagBool }

// Text returns the held text, or "" for non-text values.
func (v Value) Text() string { return v.text }

// Bool returns the held boolean, or false for non-boolean values.
func (v Value) Bool() bool { return v.flag }

// Any returns the value as string, bool or nil (Absent).
func (v Value) Any() any {
	switch v.tag {
	case tagText:
		return v.text
	case tagBool:
		return v.flag
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.tag {
	case tagText:
		return strconv.Quote(v.text)
	case tagBool:
		return strconv.FormatBool(v.flag)
	default:
		return "absent"
	}
}
