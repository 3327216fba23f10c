// Package form ties a schema, its draft store and a submit callback into one
// live form instance. Hosts render the tree returned by Render, forward every
// control event to Dispatch and the submit event to Submit.
package form

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formulay/pkg/draft"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/schema"
)

// ErrUnknownControl reports an event for a control the form never rendered.
var ErrUnknownControl = errors.New("form: unknown control")

// SubmitFunc receives the record produced by a submission.
type SubmitFunc func(record.Record)

// SubmitPolicy decides what happens to the draft after a submission.
type SubmitPolicy uint8

const (
	// RetainAfterSubmit leaves the draft untouched.
	RetainAfterSubmit SubmitPolicy = iota
	// ResetAfterSubmit restores the initial values.
	ResetAfterSubmit
)

func (p SubmitPolicy) String() string {
	switch p {
	case ResetAfterSubmit:
		return "reset"
	default:
		return "retain"
	}
}

// DefaultPreventer is the slice of a host submit event the form needs.
type DefaultPreventer interface {
	PreventDefault()
}

// Option configures a Form.
type Option func(*Form)

// WithInitialValues overrides field defaults for this instance.
func WithInitialValues(values map[string]any) Option {
	return func(f *Form) {
		if f.initial == nil {
			f.initial = make(map[string]any, len(values))
		}
		for name, value := range values {
			f.initial[name] = value
		}
	}
}

// WithSubmitPolicy selects the post-submit behaviour.
func WithSubmitPolicy(policy SubmitPolicy) Option {
	return func(f *Form) {
		f.policy = policy
	}
}

// WithRenderHook registers a function receiving a fresh tree after every
// mutation.
func WithRenderHook(hook func(*render.Node)) Option {
	return func(f *Form) {
		f.hook = hook
	}
}

// WithAssembler replaces the default render assembler.
func WithAssembler(assembler *render.Assembler) Option {
	return func(f *Form) {
		if assembler != nil {
			f.assembler = assembler
		}
	}
}

// Form is one live instance of a schema. It is owned by a single host and is
// not safe for concurrent use.
type Form struct {
	id        string
	schema    *schema.FormSchema
	store     *draft.Store
	onSubmit  SubmitFunc
	initial   map[string]any
	policy    SubmitPolicy
	hook      func(*render.Node)
	assembler *render.Assembler
	binder    binder
}

// New instantiates a form over s. A nil onSubmit is allowed; submissions then
// only return the record.
func New(s *schema.FormSchema, onSubmit SubmitFunc, options ...Option) (*Form, error) {
	if s == nil {
		return nil, errors.New("form: schema is nil")
	}

	f := &Form{
		id:       uuid.NewString(),
		schema:   s,
		onSubmit: onSubmit,
		policy:   RetainAfterSubmit,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.assembler == nil {
		f.assembler = render.NewAssembler()
	}

	store, err := draft.New(s, f.initial)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	f.store = store
	f.binder = bind(s)
	return f, nil
}

// ID returns the instance identifier.
func (f *Form) ID() string { return f.id }

// Schema returns the schema the form was built from.
func (f *Form) Schema() *schema.FormSchema { return f.schema }

// Policy returns the configured submit policy.
func (f *Form) Policy() SubmitPolicy { return f.policy }

// Value returns the current draft value of a field.
func (f *Form) Value(name string) (schema.Value, bool) {
	return f.store.Value(name)
}

// Snapshot freezes the current draft without submitting it.
func (f *Form) Snapshot() record.Record {
	return f.store.Snapshot()
}

// Render assembles the tree for the current draft.
func (f *Form) Render() *render.Node {
	return f.assembler.Assemble(f.schema, f.store)
}

// Patch applies an RFC 6902 patch to the draft and re-renders.
func (f *Form) Patch(ops []byte) error {
	if err := f.store.Patch(ops); err != nil {
		return err
	}
	f.rendered()
	return nil
}

// Reset restores the initial values and re-renders.
func (f *Form) Reset() {
	f.store.Reset()
	f.rendered()
}

// Submit prevents the host default action, freezes the draft into a record and
// hands it to the callback exactly once. The callback result is not observed
// and its panics are not recovered.
func (f *Form) Submit(ev DefaultPreventer) record.Record {
	if ev != nil {
		ev.PreventDefault()
	}

	rec := f.store.Snapshot()
	if f.onSubmit != nil {
		f.onSubmit(rec)
	}

	if f.policy == ResetAfterSubmit {
		f.Reset()
	}
	return rec
}

func (f *Form) rendered() {
	if f.hook != nil {
		f.hook(f.Render())
	}
}
