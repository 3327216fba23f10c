package template

import (
	"io"
)

// Filter transforms a template value. param is nil when the template passes
// no argument.
type Filter func(input any, param any) (any, error)

// TemplateRenderer renders named templates with a data context. Values set
// through GlobalContext are visible to every template and are overridden by
// keys in the per call data. Implementations write the result to every
// supplied writer and also return it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
	GlobalContext(data any) error
}
