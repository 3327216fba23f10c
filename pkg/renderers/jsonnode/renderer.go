// Package jsonnode renders form trees as JSON. It backs debugging endpoints
// and snapshot tests, and lets non-HTML hosts consume the same tree.
package jsonnode

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formulay/pkg/render"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty prints output with the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer encodes render trees as JSON documents.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string { return "json" }

func (r *Renderer) ContentType() string { return "application/json" }

// Render encodes the tree together with the hidden fields from options.
func (r *Renderer) Render(ctx context.Context, tree *render.Node, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("jsonnode renderer: nil tree")
	}

	doc := document{
		Title:  options.Title,
		Hidden: render.NormalizeHidden(options.Hidden...),
		Tree:   encode(tree),
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonnode renderer: encode: %w", err)
	}
	return out, nil
}

type document struct {
	Title  string               `json:"title,omitempty"`
	Hidden []render.HiddenField `json:"hidden,omitempty"`
	Tree   node                 `json:"tree"`
}

type node struct {
	Tag      string          `json:"tag"`
	Attrs    []render.Attr   `json:"attrs,omitempty"`
	Text     string          `json:"text,omitempty"`
	Markup   string          `json:"markup,omitempty"`
	Binding  *render.Binding `json:"binding,omitempty"`
	Children []node          `json:"children,omitempty"`
}

func encode(n *render.Node) node {
	out := node{
		Tag:     n.Tag,
		Attrs:   n.Attrs,
		Text:    n.Text,
		Markup:  n.Markup,
		Binding: n.Binding,
	}
	for _, child := range n.Children {
		if child != nil {
			out.Children = append(out.Children, encode(child))
		}
	}
	return out
}
