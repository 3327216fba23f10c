// Package testsupport holds fixture and golden helpers shared by the package
// tests. Helpers fail the test instead of returning errors to keep contract
// tests concise.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/schema"
)

// MustBuildSchema finishes a builder chain, failing the test on error.
func MustBuildSchema(t *testing.T, b *schema.Builder) *schema.FormSchema {
	t.Helper()

	s, err := b.Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

// MustLoadSchema reads a YAML or JSON declaration document from disk.
func MustLoadSchema(t *testing.T, path string) *schema.FormSchema {
	t.Helper()

	s, err := schema.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		t.Fatalf("load schema %s: %v", path, err)
	}
	return s
}

// MustNewForm instantiates a form, failing the test on error.
func MustNewForm(t *testing.T, s *schema.FormSchema, onSubmit form.SubmitFunc, options ...form.Option) *form.Form {
	t.Helper()

	f, err := form.New(s, onSubmit, options...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden at path, rewriting the golden
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := CompareGolden(want, string(got)); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs fn against a buffer and returns both the string fn
// returned and what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := fn(&buf)
	if err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return out, buf.String()
}
