package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/httpform"
	"github.com/goliatone/go-formulay/pkg/orchestrator"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/render"
	"github.com/goliatone/go-formulay/pkg/renderers/tui"
	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
	"github.com/goliatone/go-formulay/pkg/schema"
)

const usage = `usage: formulay <command> [flags]

commands:
  render   render a form declaration (html or json)
  fill     fill a form interactively in the terminal
  serve    serve a form over HTTP
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "render":
		err = runRender(args)
	case "fill":
		err = runFill(args)
	case "serve":
		err = runServe(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("formulay %s: %v", os.Args[1], err)
	}
}

// sourceFlags are shared by every subcommand.
type sourceFlags struct {
	path      string
	component string
	values    string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.path, "schema", "", "declaration document (YAML/JSON) or OpenAPI document path")
	fs.StringVar(&s.component, "component", "", "OpenAPI components.schemas entry; treats -schema as OpenAPI")
	fs.StringVar(&s.values, "values", "", "JSON object of initial values")
}

func (s *sourceFlags) load(ctx context.Context) (*schema.FormSchema, error) {
	if s.path == "" {
		return nil, errors.New("-schema is required")
	}
	if s.component != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}
		return schema.LoadOpenAPI(ctx, data, s.component)
	}
	return schema.Load(os.DirFS(filepath.Dir(s.path)), filepath.Base(s.path))
}

func (s *sourceFlags) initialValues() (map[string]any, error) {
	if s.values == "" {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(s.values), &values); err != nil {
		return nil, fmt.Errorf("-values: %w", err)
	}
	return values, nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var source sourceFlags
	source.register(fs)
	renderer := fs.String("renderer", "vanilla", "renderer to use (vanilla, json)")
	output := fs.String("output", "", "output file (stdout if empty)")
	document := fs.Bool("document", false, "wrap the form in a full HTML page")
	title := fs.String("title", "", "page title for -document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	s, err := source.load(ctx)
	if err != nil {
		return err
	}
	values, err := source.initialValues()
	if err != nil {
		return err
	}

	out, err := orchestrator.New().Generate(ctx, orchestrator.Request{
		Schema:   s,
		Values:   values,
		Renderer: *renderer,
		RenderOptions: render.RenderOptions{
			Document: *document,
			Title:    *title,
		},
	})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("Form written to %s\n", *output)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func runFill(args []string) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	var source sourceFlags
	source.register(fs)
	format := fs.String("format", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := source.load(ctx)
	if err != nil {
		return err
	}
	values, err := source.initialValues()
	if err != nil {
		return err
	}

	f, err := form.New(s, nil, form.WithInitialValues(values))
	if err != nil {
		return err
	}
	filler := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)))
	rec, err := filler.Fill(ctx, f)
	if err != nil {
		return err
	}
	return filler.Report(ctx, rec)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var source sourceFlags
	source.register(fs)
	addr := fs.String("addr", ":8383", "listen address")
	path := fs.String("path", "/", "form route")
	title := fs.String("title", "", "page title")
	reset := fs.Bool("reset", false, "reset the draft after each submission")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := source.load(ctx)
	if err != nil {
		return err
	}
	values, err := source.initialValues()
	if err != nil {
		return err
	}

	policy := form.RetainAfterSubmit
	if *reset {
		policy = form.ResetAfterSubmit
	}
	renderer, err := vanilla.New(vanilla.WithStylesheet("/assets/" + vanilla.StylesheetName))
	if err != nil {
		return err
	}
	handler, err := httpform.New(s, func(rec record.Record) {
		payload, _ := rec.MarshalJSON()
		logger.Info("record received", "schema", s.Name(), "record", string(payload))
	},
		httpform.WithLogger(logger),
		httpform.WithRenderer(renderer),
		httpform.WithDocument(*title),
		httpform.WithFormOptions(form.WithInitialValues(values), form.WithSubmitPolicy(policy)),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.Handle(*path, handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr, "schema", s.Name(), "path", *path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
