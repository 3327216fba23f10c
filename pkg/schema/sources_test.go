package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formulay/pkg/schema"
)

type fieldSummary struct {
	Name    string
	Kind    string
	Default any
	Label   string
}

func summarize(s *schema.FormSchema) []fieldSummary {
	out := make([]fieldSummary, 0, s.Len())
	for _, field := range s.Fields() {
		out = append(out, fieldSummary{
			Name:    field.Name,
			Kind:    field.Kind.String(),
			Default: field.Default.Any(),
			Label:   field.DisplayLabel(),
		})
	}
	return out
}

type signupForm struct {
	Email        string  `form:"email,label=Email address"`
	AgreeToTerms bool    `json:"agreeToTerms"`
	Nickname     *string `form:",default=anon"`
	Newsletter   *bool
	Internal     string `form:"-"`
	secret       string
}

func TestFor_Struct(t *testing.T) {
	s, err := schema.For[signupForm]("")
	if err != nil {
		t.Fatalf("for: %v", err)
	}
	if s.Name() != "signupForm" {
		t.Fatalf("unexpected schema name %q", s.Name())
	}

	want := []fieldSummary{
		{Name: "email", Kind: "text", Default: "", Label: "Email address"},
		{Name: "agreeToTerms", Kind: "boolean", Default: false, Label: "Agree To Terms"},
		{Name: "nickname", Kind: "optional<text>", Default: "anon", Label: "Nickname"},
		{Name: "newsletter", Kind: "optional<boolean>", Default: nil, Label: "Newsletter"},
	}
	if diff := cmp.Diff(want, summarize(s)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestStructFieldName(t *testing.T) {
	rt := reflect.TypeOf(signupForm{})
	want := map[string]string{
		"Email":        "email",
		"AgreeToTerms": "agreeToTerms",
		"Nickname":     "nickname",
		"Newsletter":   "newsletter",
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, ok := schema.StructFieldName(sf)
		expected, mapped := want[sf.Name]
		if ok != mapped || name != expected {
			t.Errorf("StructFieldName(%s) = %q, %v; want %q, %v", sf.Name, name, ok, expected, mapped)
		}
	}
}

type address struct {
	Street string
}

type shippingForm struct {
	Recipient string
	Address   address
}

func TestFromStruct_UnsupportedNestedStruct(t *testing.T) {
	s, err := schema.FromStruct("shipping", &shippingForm{})
	if s != nil {
		t.Fatalf("expected no schema")
	}
	var typed *schema.UnsupportedFieldTypeError
	if !errors.As(err, &typed) {
		t.Fatalf("expected UnsupportedFieldTypeError, got %v", err)
	}
	if typed.Field != "address" {
		t.Fatalf("expected error to name the address field, got %q", typed.Field)
	}
}

func TestFromStruct_RequiresStruct(t *testing.T) {
	if _, err := schema.FromStruct("bad", 42); !errors.Is(err, schema.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if _, err := schema.FromStruct("bad", nil); !errors.Is(err, schema.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestLoad_YAMLDocument(t *testing.T) {
	s, err := schema.Load(os.DirFS("testdata"), "signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []fieldSummary{
		{Name: "email", Kind: "text", Default: "", Label: "Email address"},
		{Name: "agreeToTerms", Kind: "boolean", Default: false, Label: "Agree To Terms"},
		{Name: "nickname", Kind: "optional<text>", Default: nil, Label: "Nickname"},
		{Name: "newsletter", Kind: "optional<boolean>", Default: true, Label: "Newsletter"},
	}
	if diff := cmp.Diff(want, summarize(s)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if help := s.FieldAt(0).Help; help != "We <b>never</b> share it" {
		t.Fatalf("unexpected help %q", help)
	}
}

func TestParse_UnsupportedJSONDocument(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "unsupported.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err = schema.Parse(data)
	var typed *schema.UnsupportedFieldTypeError
	if !errors.As(err, &typed) || typed.Field != "address" {
		t.Fatalf("expected unsupported address field, got %v", err)
	}
}

func TestParse_ExplicitNullDefault(t *testing.T) {
	_, err := schema.Parse([]byte("name: s\nfields:\n  - name: email\n    type: string\n    default: null\n"))
	if !errors.Is(err, schema.ErrInvalidDefault) {
		t.Fatalf("expected ErrInvalidDefault for null required default, got %v", err)
	}
}

func TestLoadOpenAPI(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "accounts.openapi.yaml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	s, err := schema.LoadOpenAPI(context.Background(), data, "Signup")
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	want := []fieldSummary{
		{Name: "email", Kind: "text", Default: "", Label: "Email address"},
		{Name: "agreeToTerms", Kind: "boolean", Default: false, Label: "Agree To Terms"},
		{Name: "nickname", Kind: "optional<text>", Default: nil, Label: "Nickname"},
		{Name: "newsletter", Kind: "optional<boolean>", Default: nil, Label: "Newsletter"},
	}
	if diff := cmp.Diff(want, summarize(s)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, err := schema.LoadOpenAPI(context.Background(), data, "Shipping"); !errors.Is(err, schema.ErrUnsupportedFieldType) {
		t.Fatalf("expected ErrUnsupportedFieldType for object property, got %v", err)
	}
	if _, err := schema.LoadOpenAPI(context.Background(), data, "Missing"); !errors.Is(err, schema.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema for missing component, got %v", err)
	}
}
