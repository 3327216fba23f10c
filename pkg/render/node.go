package render

import "strings"

// EventType names the host event a control is bound to.
type EventType string

const (
	// EventInput fires when a text control's value changes.
	EventInput EventType = "input"
	// EventChange fires when a checkbox control is toggled.
	EventChange EventType = "change"
	// EventPresence fires when an optional field's presence toggle changes.
	EventPresence EventType = "presence"
	// EventSubmit fires when the form is submitted.
	EventSubmit EventType = "submit"
)

// Binding ties a rendered element to the entry point that handles its event.
type Binding struct {
	// Control names the mutation entry point; it doubles as the input name.
	Control string    `json:"control,omitempty"`
	Field   string    `json:"field,omitempty"`
	Event   EventType `json:"event"`
}

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Key string `json:"key"`
	Val string `json:"value"`
}

// Node is one element of the render tree. The tree is a pure projection of a
// schema and its draft values and is never a source of truth.
type Node struct {
	Tag   string
	Attrs []Attr
	// Text is escaped text content.
	Text string
	// Markup is a sanitized HTML fragment emitted as element content.
	Markup   string
	Binding  *Binding
	Children []*Node
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute contains class.
func (n *Node) HasClass(class string) bool {
	value, _ := n.Attr("class")
	for _, token := range strings.Fields(value) {
		if token == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns every node for which match returns true, in document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if match(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Bindings lists the bindings carried by the tree in document order.
func (n *Node) Bindings() []Binding {
	var out []Binding
	n.Walk(func(node *Node) bool {
		if node.Binding != nil {
			out = append(out, *node.Binding)
		}
		return true
	})
	return out
}
