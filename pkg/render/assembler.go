package render

import (
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formulay/internal/naming"
	"github.com/goliatone/go-formulay/pkg/classes"
	"github.com/goliatone/go-formulay/pkg/schema"
	"github.com/goliatone/go-formulay/pkg/widgets"
)

const (
	// PresenceSuffix is appended to a field name to form the control name of
	// its presence toggle.
	PresenceSuffix = "__present"

	// SchemaAttr carries the schema name on the container.
	SchemaAttr = "data-formula-y-schema"
	// PresentAttr mirrors the presence state of optional controls.
	PresentAttr = "data-formula-y-present"

	defaultSubmitLabel = "Submit"
	defaultIDPrefix    = "fy-"
)

// PresenceControl returns the control name of a field's presence toggle.
func PresenceControl(field string) string {
	return field + PresenceSuffix
}

// ValueSource supplies the current value of each field, typically a draft
// store.
type ValueSource interface {
	Value(name string) (schema.Value, bool)
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithSubmitLabel sets the submit trigger text.
func WithSubmitLabel(label string) AssemblerOption {
	return func(a *Assembler) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			a.submitLabel = trimmed
		}
	}
}

// WithIDPrefix sets the prefix of generated element ids.
func WithIDPrefix(prefix string) AssemblerOption {
	return func(a *Assembler) {
		a.idPrefix = strings.TrimSpace(prefix)
	}
}

// WithHelpPolicy overrides the sanitizer applied to field help markup.
func WithHelpPolicy(policy *bluemonday.Policy) AssemblerOption {
	return func(a *Assembler) {
		if policy != nil {
			a.helpPolicy = policy
		}
	}
}

// Assembler builds render trees. It holds configuration only and is safe for
// concurrent use.
type Assembler struct {
	submitLabel string
	idPrefix    string
	helpPolicy  *bluemonday.Policy
}

// NewAssembler constructs an Assembler with the supplied options.
func NewAssembler(options ...AssemblerOption) *Assembler {
	a := &Assembler{
		submitLabel: defaultSubmitLabel,
		idPrefix:    defaultIDPrefix,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if a.helpPolicy == nil {
		a.helpPolicy = helpSanitizer()
	}
	return a
}

// Assemble builds the tree for s using values from src. Fields src does not
// know fall back to their declared default, so assembly is total.
// Identical inputs produce structurally identical trees.
func (a *Assembler) Assemble(s *schema.FormSchema, src ValueSource) *Node {
	form := &Node{
		Tag: "form",
		Attrs: []Attr{
			{Key: "class", Val: classes.Container(s.Name())},
			{Key: SchemaAttr, Val: s.Name()},
			{Key: "method", Val: "post"},
		},
		Binding: &Binding{Event: EventSubmit},
	}

	for _, field := range s.Fields() {
		value := field.Default
		if src != nil {
			if current, ok := src.Value(field.Name); ok {
				value = current
			}
		}
		form.Children = append(form.Children, a.fieldNodes(s.Name(), field, value)...)
	}

	form.Children = append(form.Children, &Node{
		Tag: "button",
		Attrs: []Attr{
			{Key: "type", Val: "submit"},
			{Key: "class", Val: classes.Submit(s.Name())},
		},
		Text: a.submitLabel,
	})
	return form
}

func (a *Assembler) fieldNodes(schemaName string, field schema.FieldDescriptor, value schema.Value) []*Node {
	widget := widgets.For(field)
	display := widget.Display(value)
	id := a.controlID(schemaName, field.Name)

	label := &Node{
		Tag: "label",
		Attrs: []Attr{
			{Key: "for", Val: id},
			{Key: "class", Val: classes.For(schemaName, field, classes.RoleLabel)},
		},
		Text: field.DisplayLabel(),
	}

	control := &Node{
		Tag: "input",
		Attrs: []Attr{
			{Key: "type", Val: widget.InputType},
			{Key: "id", Val: id},
			{Key: "name", Val: field.Name},
			{Key: "class", Val: classes.For(schemaName, field, classes.RoleInput)},
		},
		Binding: &Binding{Control: field.Name, Field: field.Name, Event: EventInput},
	}
	switch widget.Archetype {
	case widgets.ArchetypeCheckbox:
		control.Attrs = append(control.Attrs, Attr{Key: "value", Val: "true"})
		if display.Checked {
			control.Attrs = append(control.Attrs, Attr{Key: "checked", Val: ""})
		}
		control.Binding.Event = EventChange
	default:
		control.Attrs = append(control.Attrs, Attr{Key: "value", Val: display.Text})
	}
	if widget.Optional {
		control.Attrs = append(control.Attrs, Attr{Key: PresentAttr, Val: strconv.FormatBool(display.Present)})
	}

	nodes := []*Node{label, control}

	if widget.Optional {
		presence := &Node{
			Tag: "input",
			Attrs: []Attr{
				{Key: "type", Val: "checkbox"},
				{Key: "id", Val: id + "-present"},
				{Key: "name", Val: PresenceControl(field.Name)},
				{Key: "class", Val: classes.For(schemaName, field, classes.RolePresence)},
				{Key: "value", Val: "true"},
				{Key: "aria-label", Val: "Provide " + field.DisplayLabel()},
			},
			Binding: &Binding{Control: PresenceControl(field.Name), Field: field.Name, Event: EventPresence},
		}
		if display.Present {
			presence.Attrs = append(presence.Attrs, Attr{Key: "checked", Val: ""})
		}
		nodes = append(nodes, presence)
	}

	if help := strings.TrimSpace(a.helpPolicy.Sanitize(field.Help)); help != "" {
		nodes = append(nodes, &Node{
			Tag: "small",
			Attrs: []Attr{
				{Key: "id", Val: id + "-help"},
				{Key: "class", Val: classes.For(schemaName, field, classes.RoleHelp)},
			},
			Markup: help,
		})
	}
	return nodes
}

func (a *Assembler) controlID(schemaName, fieldName string) string {
	return a.idPrefix + naming.Kebab(schemaName) + "-" + naming.Kebab(fieldName)
}

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// helpSanitizer allows inline emphasis and links. Links keep only http, https,
// mailto or relative hrefs and get rel="nofollow"; a link left without an
// href is unwrapped to its text.
func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "span", "a")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		helpPolicy = policy
	})
	return helpPolicy
}
