// Package formulay generates HTML forms from typed declarations and turns
// their submissions back into typed records.
//
// A schema is declared once (builder, struct tags, YAML document or OpenAPI
// component), instantiated as a live form, rendered through any registered
// renderer and submitted into an immutable record:
//
//	s := schema.New("signup").Text("email").Bool("agreeToTerms").MustBuild()
//	f, _ := formulay.NewForm(s, func(rec formulay.Record) { ... })
//	html, _ := formulay.RenderHTML(ctx, f, formulay.RenderOptions{})
package formulay

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/httpform"
	"github.com/goliatone/go-formulay/pkg/orchestrator"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
	"github.com/goliatone/go-formulay/pkg/schema"
)

// Schema is an immutable, ordered form declaration.
type Schema = schema.FormSchema

// Record is the typed result of a submission.
type Record = record.Record

// Form is a live form instance.
type Form = form.Form

// Event is a control event forwarded by a host.
type Event = form.Event

// RenderOptions carries per-request render concerns such as hidden inputs.
type RenderOptions = render.RenderOptions

// Request describes a one-shot render through the orchestrator.
type Request = orchestrator.Request

// Define starts a schema builder.
func Define(name string) *schema.Builder {
	return schema.New(name)
}

// NewForm instantiates a form over s.
func NewForm(s *Schema, onSubmit form.SubmitFunc, options ...form.Option) (*Form, error) {
	return form.New(s, onSubmit, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate renders req with a default orchestrator.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}

// RenderHTML renders the current state of f with the vanilla renderer.
func RenderHTML(ctx context.Context, f *Form, options RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, f.Render(), options)
}

// Handler serves s over HTTP.
func Handler(s *Schema, onSubmit form.SubmitFunc, options ...httpform.Option) (*httpform.Handler, error) {
	return httpform.New(s, onSubmit, options...)
}

// AssetsFS exposes the bundled stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formulay.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

// EmbeddedTemplates exposes the page templates used for document output.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
