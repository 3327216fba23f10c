// Package classes derives the CSS class hooks carried by generated markup.
// Every element gets a per-schema or per-field class in kebab case plus a
// library-wide formula-y-* marker, so stylesheets can target one field of one
// schema or every control of a kind.
package classes

import (
	"github.com/goliatone/go-formulay/internal/naming"
	"github.com/goliatone/go-formulay/pkg/schema"
	"github.com/goliatone/go-formulay/pkg/widgets"
)

// Prefix is the library-wide marker prefix.
const Prefix = "formula-y"

// Role is the part an element plays in the form.
type Role string

const (
	RoleContainer Role = "form"
	RoleLabel     Role = "label"
	RoleInput     Role = "input"
	RolePresence  Role = "presence"
	RoleHelp      Role = "help"
	RoleSubmit    Role = "submit"
)

// Derive returns the specific class for role: "<field>-<role>" for field
// roles and "<schema>-<role>" for RoleContainer and RoleSubmit.
func Derive(schemaName, fieldName string, role Role) string {
	switch role {
	case RoleContainer, RoleSubmit:
		return naming.Kebab(schemaName) + "-" + string(role)
	default:
		return naming.Kebab(fieldName) + "-" + string(role)
	}
}

// Marker returns the library-wide class for a role. Label and input markers
// carry the control archetype (formula-y-txt-label, formula-y-checkbox-input).
func Marker(archetype widgets.Archetype, role Role) string {
	switch role {
	case RoleLabel, RoleInput:
		return Prefix + "-" + string(archetype) + "-" + string(role)
	default:
		return Prefix + "-" + string(role)
	}
}

// For returns the full class attribute for a field element.
func For(schemaName string, field schema.FieldDescriptor, role Role) string {
	return Derive(schemaName, field.Name, role) + " " + Marker(widgets.For(field).Archetype, role)
}

// Container returns the class attribute of the form element.
func Container(schemaName string) string {
	return Derive(schemaName, "", RoleContainer) + " " + Marker("", RoleContainer)
}

// Submit returns the class attribute of the submit trigger.
func Submit(schemaName string) string {
	return Derive(schemaName, "", RoleSubmit) + " " + Marker("", RoleSubmit)
}
