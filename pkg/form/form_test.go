package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formulay/pkg/draft"
	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/schema"
)

type submitEvent struct{ prevented int }

func (e *submitEvent) PreventDefault() { e.prevented++ }

func signupSchema(t *testing.T) *schema.FormSchema {
	t.Helper()
	s, err := schema.New("signup").Text("email").Bool("agreeToTerms").Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

func TestForm_ScenarioB(t *testing.T) {
	var received []record.Record
	f, err := form.New(signupSchema(t), func(rec record.Record) {
		received = append(received, rec)
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if err := f.Dispatch(form.Event{Control: "email", Type: render.EventInput, Value: "a@b.com"}); err != nil {
		t.Fatalf("dispatch email: %v", err)
	}
	if err := f.Dispatch(form.Event{Control: "agreeToTerms", Type: render.EventChange, Checked: true}); err != nil {
		t.Fatalf("dispatch agreeToTerms: %v", err)
	}

	ev := &submitEvent{}
	rec := f.Submit(ev)

	if ev.prevented != 1 {
		t.Fatalf("expected PreventDefault once, got %d", ev.prevented)
	}
	if len(received) != 1 {
		t.Fatalf("expected callback once, got %d", len(received))
	}
	want := map[string]any{"email": "a@b.com", "agreeToTerms": true}
	if diff := cmp.Diff(want, received[0].Values()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if !rec.Equal(received[0]) {
		t.Fatalf("returned record differs from the delivered one")
	}
}

func TestForm_ScenarioC(t *testing.T) {
	s := schema.New("profile").OptionalText("nickname").MustBuild()
	var got record.Record
	f, err := form.New(s, func(rec record.Record) { got = rec })
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.Submit(nil)

	value, ok := got.Get("nickname")
	if !ok {
		t.Fatalf("record is missing nickname")
	}
	if value.Present() {
		t.Fatalf("expected nickname absent, got %s", value)
	}
	if _, isText := got.Text("nickname"); isText {
		t.Fatalf("absent field must not read as text")
	}
}

func TestForm_PresenceControl(t *testing.T) {
	s := schema.New("profile").OptionalText("nickname", schema.WithDefault("anon")).MustBuild()
	f, err := form.New(s, nil, form.WithInitialValues(map[string]any{"nickname": nil}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	present := render.PresenceControl("nickname")
	if err := f.Dispatch(form.Event{Control: present, Type: render.EventPresence, Checked: true}); err != nil {
		t.Fatalf("dispatch presence: %v", err)
	}
	if value, _ := f.Value("nickname"); value != schema.TextValue("anon") {
		t.Fatalf("expected default on presence, got %s", value)
	}

	if err := f.Dispatch(form.Event{Control: present, Type: render.EventPresence, Checked: false}); err != nil {
		t.Fatalf("dispatch presence: %v", err)
	}
	if value, _ := f.Value("nickname"); value.Present() {
		t.Fatalf("expected absent, got %s", value)
	}

	if err := f.Dispatch(form.Event{Control: "nickname", Type: render.EventInput, Value: "ace"}); err != nil {
		t.Fatalf("dispatch value: %v", err)
	}
	if value, _ := f.Value("nickname"); value != schema.TextValue("ace") {
		t.Fatalf("editing an absent field must make it present, got %s", value)
	}
}

func TestForm_UnknownControl(t *testing.T) {
	f, err := form.New(signupSchema(t), nil)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	err = f.Dispatch(form.Event{Control: "email__present", Checked: true})
	if !errors.Is(err, form.ErrUnknownControl) {
		t.Fatalf("expected ErrUnknownControl, got %v", err)
	}
}

func TestForm_ControlsMatchBindings(t *testing.T) {
	s := schema.New("profile").Text("email").OptionalBool("newsletter").MustBuild()
	f, err := form.New(s, nil)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	var rendered []string
	for _, binding := range f.Render().Bindings() {
		if binding.Event != render.EventSubmit {
			rendered = append(rendered, binding.Control)
		}
	}
	if diff := cmp.Diff(rendered, f.Controls()); diff != "" {
		t.Fatalf("controls mismatch (-rendered +controls):\n%s", diff)
	}
}

func TestForm_RenderHook(t *testing.T) {
	var trees []*render.Node
	f, err := form.New(signupSchema(t), nil, form.WithRenderHook(func(n *render.Node) {
		trees = append(trees, n)
	}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if err := f.Dispatch(form.Event{Control: "email", Value: "x@y.z"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("expected one render, got %d", len(trees))
	}
	email := trees[0].Find(func(n *render.Node) bool { return n.Binding != nil && n.Binding.Control == "email" })[0]
	if value, _ := email.Attr("value"); value != "x@y.z" {
		t.Fatalf("hook tree is stale: %q", value)
	}
}

func TestForm_SubmitPolicies(t *testing.T) {
	cases := []struct {
		policy form.SubmitPolicy
		want   string
	}{
		{policy: form.RetainAfterSubmit, want: "typed"},
		{policy: form.ResetAfterSubmit, want: "seed"},
	}

	for _, tc := range cases {
		t.Run(tc.policy.String(), func(t *testing.T) {
			f, err := form.New(signupSchema(t), nil,
				form.WithInitialValues(map[string]any{"email": "seed"}),
				form.WithSubmitPolicy(tc.policy),
			)
			if err != nil {
				t.Fatalf("new form: %v", err)
			}
			if err := f.Dispatch(form.Event{Control: "email", Value: "typed"}); err != nil {
				t.Fatalf("dispatch: %v", err)
			}

			rec := f.Submit(nil)
			if text, _ := rec.Text("email"); text != "typed" {
				t.Fatalf("record must carry the submitted draft, got %q", text)
			}
			if value, _ := f.Value("email"); value.Text() != tc.want {
				t.Fatalf("draft after submit = %q, want %q", value.Text(), tc.want)
			}
		})
	}
}

func TestForm_RoundTrip(t *testing.T) {
	s := schema.New("profile").
		Text("email").
		OptionalText("nickname").
		OptionalBool("newsletter").
		MustBuild()
	f, err := form.New(s, nil, form.WithInitialValues(map[string]any{
		"email":      "a@b.com",
		"newsletter": false,
	}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	first := f.Submit(nil)

	again, err := form.New(s, nil, form.WithInitialValues(first.Values()))
	if err != nil {
		t.Fatalf("reseed form: %v", err)
	}
	second := again.Submit(nil)
	if !first.Equal(second) {
		t.Fatalf("round trip changed the record: %v vs %v", first.Values(), second.Values())
	}

	store, err := draft.FromRecord(first)
	if err != nil {
		t.Fatalf("draft from record: %v", err)
	}
	if !store.Snapshot().Equal(first) {
		t.Fatalf("draft round trip changed the record")
	}
}

func TestForm_RejectsBadInitialValues(t *testing.T) {
	_, err := form.New(signupSchema(t), nil, form.WithInitialValues(map[string]any{"unknown": "x"}))
	if !errors.Is(err, draft.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestForm_Patch(t *testing.T) {
	var renders int
	f, err := form.New(signupSchema(t), nil, form.WithRenderHook(func(*render.Node) { renders++ }))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if err := f.Patch([]byte(`[{"op":"replace","path":"/email","value":"p@q.r"}]`)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if value, _ := f.Value("email"); value.Text() != "p@q.r" {
		t.Fatalf("unexpected email %s", value)
	}
	if renders != 1 {
		t.Fatalf("expected one render, got %d", renders)
	}
	if f.ID() == "" {
		t.Fatalf("form id must be set")
	}
}
