// Package template defines the page template seam used by renderers that wrap
// a form fragment in a complete document.
package template
