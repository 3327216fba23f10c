// Package httpform serves a form over net/http. GET renders the form; POST
// replays the submitted controls as control events on a fresh form instance,
// in schema order, and submits it. Each request gets its own instance, so
// concurrent requests never share a draft.
package httpform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
	"github.com/goliatone/go-formulay/pkg/schema"
)

// SubmissionHeader carries the id assigned to every submission.
const SubmissionHeader = "X-Formulay-Submission"

const (
	contentTypeJSON      = "application/json"
	contentTypeJSONPatch = "application/json-patch+json"
	defaultMaxBodyBytes  = 1 << 20
)

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer replaces the default vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHiddenFields supplies per-request hidden inputs such as CSRF tokens.
func WithHiddenFields(fn func(*http.Request) []render.HiddenField) Option {
	return func(h *Handler) {
		h.hidden = fn
	}
}

// WithFormOptions forwards options to every form instance the handler builds.
func WithFormOptions(options ...form.Option) Option {
	return func(h *Handler) {
		h.formOptions = append(h.formOptions, options...)
	}
}

// WithDocument renders full HTML pages instead of fragments.
func WithDocument(title string) Option {
	return func(h *Handler) {
		h.document = true
		h.title = strings.TrimSpace(title)
	}
}

// WithMaxBodyBytes bounds the size of POST bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(h *Handler) {
		if limit > 0 {
			h.maxBodyBytes = limit
		}
	}
}

// Handler serves one schema.
type Handler struct {
	schema       *schema.FormSchema
	onSubmit     form.SubmitFunc
	renderer     render.Renderer
	logger       *slog.Logger
	hidden       func(*http.Request) []render.HiddenField
	formOptions  []form.Option
	document     bool
	title        string
	maxBodyBytes int64
}

var _ http.Handler = (*Handler)(nil)

// New builds a handler for s. onSubmit runs once per accepted POST.
func New(s *schema.FormSchema, onSubmit form.SubmitFunc, options ...Option) (*Handler, error) {
	if s == nil {
		return nil, errors.New("httpform: schema is nil")
	}

	h := &Handler{
		schema:       s,
		onSubmit:     onSubmit,
		logger:       slog.Default(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("httpform: default renderer: %w", err)
		}
		h.renderer = renderer
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.serveForm(w, r)
	case http.MethodPost:
		h.serveSubmit(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveForm(w http.ResponseWriter, r *http.Request) {
	f, err := form.New(h.schema, nil, h.formOptions...)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "build form", err)
		return
	}
	h.writeForm(w, r, http.StatusOK, f)
}

func (h *Handler) serveSubmit(w http.ResponseWriter, r *http.Request) {
	submission := uuid.NewString()
	logger := h.logger.With("schema", h.schema.Name(), "submission", submission)

	f, err := form.New(h.schema, h.onSubmit, h.formOptions...)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "build form", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case contentTypeJSONPatch:
		ops, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			h.fail(w, r, http.StatusBadRequest, "read patch", readErr)
			return
		}
		err = f.Patch(ops)
	default:
		if parseErr := r.ParseForm(); parseErr != nil {
			h.fail(w, r, http.StatusBadRequest, "parse form", parseErr)
			return
		}
		err = Replay(f, r.PostForm)
	}
	if err != nil {
		h.fail(w, r, http.StatusUnprocessableEntity, "apply submission", err)
		return
	}

	rec := f.Submit(nil)
	logger.Info("form submitted", "fields", rec.Len())

	w.Header().Set(SubmissionHeader, submission)
	if wantsJSON(r) {
		writeJSON(w, logger, http.StatusOK, submissionResponse{Submission: submission, Record: rec})
		return
	}
	h.writeForm(w, r, http.StatusOK, f)
}

// Replay dispatches the controls found in values onto f in schema order, the
// way a browser host would have fired them. Optional fields apply their
// presence toggle first and skip the value when the toggle is unchecked.
// Unchecked checkboxes are not posted by browsers and read as false.
func Replay(f *form.Form, values url.Values) error {
	for _, field := range f.Schema().Fields() {
		if field.Kind.Optional() {
			present, err := checkbox(values, render.PresenceControl(field.Name))
			if err != nil {
				return err
			}
			if err := f.Dispatch(form.Event{
				Control: render.PresenceControl(field.Name),
				Type:    render.EventPresence,
				Checked: present,
			}); err != nil {
				return err
			}
			if !present {
				continue
			}
		}

		if field.Kind.Base() == schema.KindBoolean {
			checked, err := checkbox(values, field.Name)
			if err != nil {
				return err
			}
			if err := f.Dispatch(form.Event{Control: field.Name, Type: render.EventChange, Checked: checked}); err != nil {
				return err
			}
			continue
		}

		if _, posted := values[field.Name]; !posted {
			continue
		}
		if err := f.Dispatch(form.Event{Control: field.Name, Type: render.EventInput, Value: values.Get(field.Name)}); err != nil {
			return err
		}
	}
	return nil
}

func checkbox(values url.Values, name string) (bool, error) {
	raw, posted := values[name]
	if !posted || len(raw) == 0 {
		return false, nil
	}
	value, err := schema.Coerce(schema.KindBoolean, raw[len(raw)-1])
	if err != nil {
		return false, fmt.Errorf("httpform: control %q: %w", name, err)
	}
	return value.Bool(), nil
}

func (h *Handler) writeForm(w http.ResponseWriter, r *http.Request, status int, f *form.Form) {
	options := render.RenderOptions{
		Document: h.document,
		Title:    h.title,
	}
	if h.hidden != nil {
		options.Hidden = h.hidden(r)
	}

	output, err := h.renderer.Render(r.Context(), f.Render(), options)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "render form", err)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(output); err != nil {
		h.logger.Warn("write response", "schema", h.schema.Name(), "error", err)
	}
}

type submissionResponse struct {
	Submission string        `json:"submission"`
	Record     record.Record `json:"record"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, stage string, err error) {
	logger := h.logger.With("schema", h.schema.Name(), "stage", stage)
	if status >= http.StatusInternalServerError {
		logger.Error("form request failed", "error", err)
	} else {
		logger.Info("form request rejected", "status", status, "error", err)
	}

	message := fmt.Sprintf("%s: %v", stage, err)
	if wantsJSON(r) {
		writeJSON(w, logger, status, errorResponse{Error: message})
		return
	}
	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("encode response", "error", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Warn("write response", "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == contentTypeJSON {
			return true
		}
	}
	return false
}
