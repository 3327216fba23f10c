package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Coerce converts a caller supplied value into a Value of the given kind.
// Accepted inputs are Value, string, bool, *string, *bool and nil (optional
// kinds only). Boolean kinds additionally accept the strings understood by
// strconv.ParseBool plus "on"/"off", matching checkbox submissions.
func Coerce(kind FieldKind, raw any) (Value, error) {
	if !kind.Valid() {
		return Value{}, fmt.Errorf("%w: kind %s", ErrInvalidValue, kind)
	}

	var value Value
	switch typed := raw.(type) {
	case nil:
		value = Absent()
	case Value:
		value = typed
	case *Value:
		if typed == nil {
			value = Absent()
		} else {
			value = *typed
		}
	case string:
		value = TextValue(typed)
	case *string:
		if typed == nil {
			value = Absent()
		} else {
			value = TextValue(*typed)
		}
	case bool:
		value = BoolValue(typed)
	case *bool:
		if typed == nil {
			value = Absent()
		} else {
			value = BoolValue(*typed)
		}
	default:
		return Value{}, fmt.Errorf("%w: %T is not a %s value", ErrInvalidValue, raw, kind)
	}

	if value.IsText() && kind.Base() == KindBoolean {
		parsed, ok := parseBool(value.Text())
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is not a %s value", ErrInvalidValue, value.Text(), kind)
		}
		value = BoolValue(parsed)
	}

	if !kind.Accepts(value) {
		return Value{}, fmt.Errorf("%w: %s is not a %s value", ErrInvalidValue, value, kind)
	}
	return value, nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true, true
	case "off", "no", "":
		return false, true
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return parsed, true
}
