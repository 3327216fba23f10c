package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/renderers/jsonnode"
	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
	"github.com/goliatone/go-formulay/pkg/schema"
)

const defaultRendererName = "vanilla"

// Decorator adjusts an assembled tree before it is rendered, for example to
// add host specific attributes.
type Decorator func(*render.Node) error

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithAssembler replaces the render assembler used for every form.
func WithAssembler(assembler *render.Assembler) Option {
	return func(o *Orchestrator) {
		o.assembler = assembler
	}
}

// WithDecorators registers tree decorators that run before rendering.
func WithDecorators(decorators ...Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// Orchestrator coordinates the pipeline. It registers the vanilla and JSON
// renderers when no registry is supplied.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	assembler       *render.Assembler
	decorators      []Decorator
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes what to render. Exactly one schema source is used, in
// order of precedence: Schema, Declaration, OpenAPI.
type Request struct {
	// Schema is a prebuilt schema.
	Schema *schema.FormSchema

	// Declaration is a YAML or JSON declaration document.
	Declaration []byte

	// OpenAPI is an OpenAPI 3 document; Component names the schema under
	// components.schemas to render.
	OpenAPI   []byte
	Component string

	// Values seed the draft before rendering.
	Values map[string]any

	// Renderer names the renderer to use. Falls back to the default renderer.
	Renderer string

	RenderOptions render.RenderOptions
}

// Generate resolves the schema, builds a form seeded with req.Values and
// renders its tree.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	s, err := o.ResolveSchema(ctx, req)
	if err != nil {
		return nil, err
	}

	options := []form.Option{form.WithInitialValues(req.Values)}
	if o.assembler != nil {
		options = append(options, form.WithAssembler(o.assembler))
	}
	f, err := form.New(s, nil, options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form: %w", err)
	}

	tree := f.Render()
	for _, decorate := range o.decorators {
		if decorate == nil {
			continue
		}
		if err := decorate(tree); err != nil {
			return nil, fmt.Errorf("orchestrator: decorate tree: %w", err)
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, tree, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// ResolveSchema returns the schema described by req.
func (o *Orchestrator) ResolveSchema(ctx context.Context, req Request) (*schema.FormSchema, error) {
	switch {
	case req.Schema != nil:
		return req.Schema, nil
	case len(req.Declaration) > 0:
		s, err := schema.Parse(req.Declaration)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: declaration: %w", err)
		}
		return s, nil
	case len(req.OpenAPI) > 0:
		if req.Component == "" {
			return nil, errors.New("orchestrator: component is required for OpenAPI sources")
		}
		s, err := schema.LoadOpenAPI(ctx, req.OpenAPI, req.Component)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: openapi: %w", err)
		}
		return s, nil
	default:
		return nil, errors.New("orchestrator: schema, declaration or openapi source is required")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry(jsonnode.New())
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
