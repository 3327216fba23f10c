// Package render assembles the render tree of a form and defines the seam
// output renderers (HTML, JSON, ...) plug into.
package render

import "context"

// Renderer serializes a render tree (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree *Node, options RenderOptions) ([]byte, error)
}
