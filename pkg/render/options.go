package render

// RenderOptions describe per-request output concerns that are not part of the
// form state, so they never enter the render tree itself.
type RenderOptions struct {
	// Hidden inputs (CSRF tokens, versions) appended inside the form element.
	Hidden []HiddenField
	// Document wraps the form in a full HTML page when the renderer supports
	// it.
	Document bool
	// Title is the page title used when Document is set.
	Title string
	// Stylesheets are linked from the page head when Document is set.
	Stylesheets []string
}
