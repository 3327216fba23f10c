package vanilla_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
	"github.com/goliatone/go-formulay/pkg/schema"
	"github.com/goliatone/go-formulay/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	r, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderer_SignupFragment(t *testing.T) {
	s := testsupport.MustBuildSchema(t, schema.New("signup").Text("email").Bool("agreeToTerms"))
	f := testsupport.MustNewForm(t, s, nil)

	output, err := newRenderer(t).Render(testsupport.Context(), f.Render(), render.RenderOptions{
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok-123")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "signup_fragment.golden.html"), output)
}

func TestRenderer_ReflectsDraft(t *testing.T) {
	s := testsupport.MustBuildSchema(t, schema.New("profile").
		Text("email").
		Bool("agreeToTerms").
		OptionalText("nickname", schema.WithHelp(`Shown <em>publicly</em><script>x()</script>`)))
	f := testsupport.MustNewForm(t, s, nil)
	if err := f.Dispatch(form.Event{Control: "email", Value: `"quoted"<tag>`}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := f.Dispatch(form.Event{Control: "agreeToTerms", Checked: true}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	output, err := newRenderer(t).Render(testsupport.Context(), f.Render(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	for _, fragment := range []string{
		`value="&#34;quoted&#34;&lt;tag&gt;"`,
		`class="agree-to-terms-input formula-y-checkbox-input" value="true" checked=""`,
		`name="nickname" class="nickname-input formula-y-txt-input" value="" data-formula-y-present="false"`,
		`name="nickname__present" class="nickname-presence formula-y-presence" value="true" aria-label="Provide Nickname"/>`,
		`<small id="fy-profile-nickname-help" class="nickname-help formula-y-help">Shown <em>publicly</em></small>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %s\n%s", fragment, html)
		}
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("help markup must be sanitized:\n%s", html)
	}
	if strings.Contains(html, `type="hidden"`) {
		t.Fatalf("no hidden fields were requested:\n%s", html)
	}
}

func TestRenderer_Document(t *testing.T) {
	s := testsupport.MustBuildSchema(t, schema.New("signupForm").Text("email"))
	f := testsupport.MustNewForm(t, s, nil)

	r := newRenderer(t, vanilla.WithDefaultStyles(), vanilla.WithStylesheet("/assets/site.css"), vanilla.WithLang("fr"))
	output, err := r.Render(testsupport.Context(), f.Render(), render.RenderOptions{
		Document:    true,
		Stylesheets: []string{"/assets/extra.css"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	for _, fragment := range []string{
		"<!DOCTYPE html>",
		`<html lang="fr">`,
		"<title>Signup Form</title>",
		".formula-y-form {",
		`<link rel="stylesheet" href="/assets/site.css">`,
		`<link rel="stylesheet" href="/assets/extra.css">`,
		`<body class="signup-form-page">`,
		`<form class="signup-form-form formula-y-form"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected document to contain %s\n%s", fragment, html)
		}
	}
}

func TestRenderer_DocumentTitle(t *testing.T) {
	s := testsupport.MustBuildSchema(t, schema.New("signup").Text("email"))
	f := testsupport.MustNewForm(t, s, nil)

	output, err := newRenderer(t).Render(testsupport.Context(), f.Render(), render.RenderOptions{
		Document: true,
		Title:    "Join <us>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(output), "<title>Join &lt;us&gt;</title>") {
		t.Fatalf("expected escaped title:\n%s", output)
	}
	if strings.Contains(string(output), "<style>") {
		t.Fatalf("default styles are opt-in:\n%s", output)
	}
}

func TestRenderer_TemplatesDirWithFilter(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := `<main data-lang="{{ lang }}">{{ schema|vanilla_test_upper }}: {{ form|safe }}</main>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	upper := func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input)), nil
	}
	r := newRenderer(t,
		vanilla.WithTemplatesDir(dir),
		vanilla.WithTemplateFilter("vanilla_test_upper", upper),
		vanilla.WithLang("de"),
	)

	s := testsupport.MustBuildSchema(t, schema.New("signup").Text("email"))
	f := testsupport.MustNewForm(t, s, nil)
	output, err := r.Render(testsupport.Context(), f.Render(), render.RenderOptions{Document: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(output), `<main data-lang="de">SIGNUP: <form class="signup-form formula-y-form"`) {
		t.Fatalf("expected custom page template output:\n%s", output)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	s := testsupport.MustBuildSchema(t, schema.New("signup").Text("email"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRenderer(t).Render(ctx, render.NewAssembler().Assemble(s, nil), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderer_Registry(t *testing.T) {
	registry := render.NewRegistry(newRenderer(t))
	s := testsupport.MustBuildSchema(t, schema.New("signup").Text("email"))

	output, contentType, err := registry.Render(testsupport.Context(), "vanilla", render.NewAssembler().Assemble(s, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("registry render: %v", err)
	}
	if contentType != "text/html; charset=utf-8" || !strings.HasPrefix(string(output), "<form ") {
		t.Fatalf("unexpected output %s %q", contentType, output)
	}
}

func TestAssetsFS(t *testing.T) {
	data, err := fsReadStylesheet()
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(data, ".formula-y-submit") {
		t.Fatalf("stylesheet is missing the submit marker")
	}
}
