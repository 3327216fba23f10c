// Package vanilla renders form trees as plain server-side HTML with no client
// runtime. Fragments are serialized with golang.org/x/net/html; full pages
// wrap the fragment in a pongo2 page template.
package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formulay/pkg/render"
	rendertemplate "github.com/goliatone/go-formulay/pkg/render/template"
	"github.com/goliatone/go-formulay/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	filters          map[string]rendertemplate.Filter
	inlineStyles     bool
	stylesheets      []string
	lang             string
}

// WithTemplatesFS supplies an alternate page template bundle. The bundle must
// contain templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the page template bundle from disk. Templates missing
// from the directory fall back to the bundle set by WithTemplatesFS, or the
// embedded one.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateFilter registers a filter custom page templates can use.
func WithTemplateFilter(name string, fn rendertemplate.Filter) Option {
	return func(cfg *config) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]rendertemplate.Filter)
		}
		cfg.filters[name] = fn
	}
}

// WithTemplateRenderer injects a custom template renderer. Page templates it
// serves may use the label and kebab filters, so it must provide them.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet in document output.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an additional stylesheet from document output.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(cfg *config) {
		cfg.lang = strings.TrimSpace(lang)
	}
}

// Renderer produces HTML from render trees.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		options := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		if cfg.templateDir != "" {
			options = append(options, gotemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := gotemplate.New(options...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	for name, fn := range cfg.filters {
		if err := templates.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("vanilla renderer: filter %q: %w", name, err)
		}
	}

	// Page settings shared by every render live in the template globals.
	page := map[string]any{
		"lang":             cfg.lang,
		"site_stylesheets": cfg.stylesheets,
	}
	if cfg.inlineStyles {
		page["inline_styles"] = defaultStylesheet()
	}
	if err := templates.GlobalContext(page); err != nil {
		return nil, fmt.Errorf("vanilla renderer: page globals: %w", err)
	}

	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render serializes tree as an HTML fragment, or as a full page when
// options.Document is set.
func (r *Renderer) Render(ctx context.Context, tree *render.Node, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := toHTML(tree, render.NormalizeHidden(options.Hidden...))
	if err != nil {
		return nil, err
	}

	var fragment bytes.Buffer
	if err := html.Render(&fragment, root); err != nil {
		return nil, fmt.Errorf("vanilla renderer: serialize: %w", err)
	}
	if !options.Document {
		return fragment.Bytes(), nil
	}
	return r.page(tree, fragment.String(), options)
}

// page renders the document template. Without a title the template labels
// the schema name.
func (r *Renderer) page(tree *render.Node, fragment string, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	schemaName, _ := tree.Attr(render.SchemaAttr)
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"schema":      schemaName,
		"title":       strings.TrimSpace(options.Title),
		"stylesheets": options.Stylesheets,
		"form":        fragment,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}
