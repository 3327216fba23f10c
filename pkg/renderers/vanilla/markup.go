package vanilla

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formulay/pkg/render"
)

// toHTML converts a render tree into an x/net/html tree. Hidden fields are
// emitted as the first children of the form element.
func toHTML(tree *render.Node, hidden []render.HiddenField) (*html.Node, error) {
	root, err := convert(tree)
	if err != nil {
		return nil, err
	}
	if root.DataAtom != atom.Form || len(hidden) == 0 {
		return root, nil
	}

	first := root.FirstChild
	for _, field := range hidden {
		input := element("input", []html.Attribute{
			{Key: "type", Val: "hidden"},
			{Key: "name", Val: field.Name},
			{Key: "value", Val: field.Value},
		})
		root.InsertBefore(input, first)
	}
	return root, nil
}

func convert(node *render.Node) (*html.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("vanilla renderer: nil node")
	}
	if strings.TrimSpace(node.Tag) == "" {
		return nil, fmt.Errorf("vanilla renderer: node without tag")
	}

	attrs := make([]html.Attribute, 0, len(node.Attrs))
	for _, attr := range node.Attrs {
		attrs = append(attrs, html.Attribute{Key: attr.Key, Val: attr.Val})
	}
	out := element(node.Tag, attrs)

	if node.Text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: node.Text})
	}
	if node.Markup != "" {
		fragment, err := html.ParseFragment(strings.NewReader(node.Markup), element(node.Tag, nil))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: parse %s markup: %w", node.Tag, err)
		}
		for _, child := range fragment {
			out.AppendChild(child)
		}
	}
	for _, child := range node.Children {
		converted, err := convert(child)
		if err != nil {
			return nil, err
		}
		out.AppendChild(converted)
	}
	return out, nil
}

func element(tag string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}
