package record_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/schema"
)

func profileSchema(t *testing.T) *schema.FormSchema {
	t.Helper()
	s, err := schema.New("profile").
		Text("email").
		Bool("agreeToTerms").
		OptionalText("nickname").
		OptionalBool("newsletter").
		Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

func TestRecord_Accessors(t *testing.T) {
	s := profileSchema(t)
	rec, err := record.New(s, []schema.Value{
		schema.TextValue("a@b.com"),
		schema.BoolValue(true),
		schema.Absent(),
		schema.BoolValue(false),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	if email, ok := rec.Text("email"); !ok || email != "a@b.com" {
		t.Fatalf("unexpected email %q (%v)", email, ok)
	}
	if agreed, ok := rec.Bool("agreeToTerms"); !ok || !agreed {
		t.Fatalf("unexpected agreeToTerms %v (%v)", agreed, ok)
	}
	if rec.Present("nickname") {
		t.Fatalf("nickname must be absent")
	}
	if _, ok := rec.Text("nickname"); ok {
		t.Fatalf("absent nickname must not read as text")
	}
	if newsletter, ok := rec.Bool("newsletter"); !ok || newsletter {
		t.Fatalf("newsletter must be present false")
	}

	want := map[string]any{"email": "a@b.com", "agreeToTerms": true, "nickname": nil, "newsletter": false}
	if diff := cmp.Diff(want, rec.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_RejectsMismatchedValues(t *testing.T) {
	s := profileSchema(t)
	cases := map[string][]schema.Value{
		"too few":         {schema.TextValue("")},
		"absent required": {schema.Absent(), schema.BoolValue(false), schema.Absent(), schema.Absent()},
		"wrong shape":     {schema.BoolValue(true), schema.BoolValue(false), schema.Absent(), schema.Absent()},
	}
	for name, values := range cases {
		if _, err := record.New(s, values); !errors.Is(err, record.ErrSchemaMismatch) {
			t.Errorf("%s: expected ErrSchemaMismatch, got %v", name, err)
		}
	}
}

func TestRecord_MarshalJSONOrdered(t *testing.T) {
	s := profileSchema(t)
	rec, err := record.New(s, []schema.Value{
		schema.TextValue(`quote"d`),
		schema.BoolValue(false),
		schema.TextValue(""),
		schema.Absent(),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	got, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"email":"quote\"d","agreeToTerms":false,"nickname":"","newsletter":null}`
	if string(got) != want {
		t.Fatalf("unexpected json\nwant: %s\n got: %s", want, got)
	}
}

type profile struct {
	Email        string  `json:"email"`
	AgreeToTerms bool    `json:"agreeToTerms"`
	Nickname     *string `json:"nickname"`
	Newsletter   *bool   `json:"newsletter"`
}

func TestRecord_Decode(t *testing.T) {
	s := profileSchema(t)
	rec, err := record.New(s, []schema.Value{
		schema.TextValue("a@b.com"),
		schema.BoolValue(true),
		schema.TextValue("ace"),
		schema.Absent(),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	var out profile
	if err := rec.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	nickname := "ace"
	want := profile{Email: "a@b.com", AgreeToTerms: true, Nickname: &nickname}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

type contactForm struct {
	Email    string  `form:"email_address"`
	Internal string  `json:"-" form:"internal"`
	Nickname *string `form:"nick"`
	Opted    bool    `json:"opted_in"`
	Skipped  string  `form:"-"`
}

func TestRecord_DecodeUsesFormTags(t *testing.T) {
	s, err := schema.For[contactForm]("contact")
	if err != nil {
		t.Fatalf("schema from struct: %v", err)
	}
	rec, err := record.New(s, []schema.Value{
		schema.TextValue("a@b.com"),
		schema.TextValue("x"),
		schema.Absent(),
		schema.BoolValue(true),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	stale := "stale"
	out := contactForm{Nickname: &stale, Skipped: "keep"}
	if err := rec.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := contactForm{Email: "a@b.com", Internal: "x", Opted: true, Skipped: "keep"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_DecodeIntoMap(t *testing.T) {
	s := profileSchema(t)
	rec, err := record.New(s, []schema.Value{
		schema.TextValue("a@b.com"),
		schema.BoolValue(false),
		schema.Absent(),
		schema.BoolValue(true),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	var out map[string]any
	if err := rec.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"email": "a@b.com", "agreeToTerms": false, "nickname": nil, "newsletter": true}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_DecodeRejects(t *testing.T) {
	s := profileSchema(t)
	rec, err := record.New(s, []schema.Value{schema.TextValue("a@b.com"), schema.BoolValue(true), schema.Absent(), schema.Absent()})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	var notPointer profile
	if err := rec.Decode(notPointer); !errors.Is(err, record.ErrDecode) {
		t.Fatalf("expected ErrDecode for non-pointer, got %v", err)
	}

	var mismatched struct {
		Email bool `form:"email"`
	}
	if err := rec.Decode(&mismatched); !errors.Is(err, record.ErrDecode) {
		t.Fatalf("expected ErrDecode for mismatched kind, got %v", err)
	}
}

func TestRecord_Equal(t *testing.T) {
	s := profileSchema(t)
	values := []schema.Value{schema.TextValue("x"), schema.BoolValue(false), schema.Absent(), schema.Absent()}
	first, _ := record.New(s, values)
	second, _ := record.New(s, values)
	if !first.Equal(second) {
		t.Fatalf("records with equal values must be equal")
	}
	values[2] = schema.TextValue("")
	third, _ := record.New(s, values)
	if first.Equal(third) {
		t.Fatalf("absent and empty text must differ")
	}
}
