// Package generate runs the full analysis pipeline over one AsyncAPI
// document: bundle, validate, analyze channels, discover and promote named
// schemas, normalize, build the schema graph and map types.
//
// Each stage takes ownership of the maps produced by the previous one and
// the driver never touches a map once it has been handed on.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/channels"
	"github.com/eventforge/asyncgen/internal/discovery"
	"github.com/eventforge/asyncgen/internal/loader"
	"github.com/eventforge/asyncgen/internal/normalize"
	"github.com/eventforge/asyncgen/internal/progress"
	"github.com/eventforge/asyncgen/internal/resolver"
	"github.com/eventforge/asyncgen/internal/schemagraph"
	"github.com/eventforge/asyncgen/internal/typemap"
	"github.com/eventforge/asyncgen/internal/validation"
)

// ErrValidationFailed is returned when the document has validation errors,
// or warnings under FailOnWarnings. The Result is returned alongside it.
var ErrValidationFailed = errors.New("document validation failed")

// Options configures a pipeline run. The zero value is usable.
type Options struct {
	Policy         discovery.CollisionPolicy
	Target         *typemap.Target // nil selects typemap.DefaultTarget
	MaxFiles       int
	FailOnWarnings bool
	// ValidateOnly stops after validation.
	ValidateOnly bool
	Logger       *slog.Logger
	Observer     progress.Observer
}

// Result holds the outputs of every completed stage.
type Result struct {
	Document    *asyncapi.Document
	Validation  *validation.Result
	Channels    []channels.AnalyzedChannel
	Schemas     *asyncapi.SchemaMap
	Polymorphic *asyncapi.PolymorphicMap
	Graph       *schemagraph.Graph
	Types       []NamedType
	Engine      *typemap.Engine
}

// Pipeline runs the analysis over documents read from one source.
type Pipeline struct {
	src  loader.Source
	opts Options
}

// New returns a pipeline reading documents from src.
func New(src loader.Source, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = progress.Nop{}
	}
	if opts.Target == nil {
		t := typemap.DefaultTarget()
		opts.Target = &t
	}
	return &Pipeline{src: src, opts: opts}
}

// stage is one step of the run. It returns a short detail for display.
type stage struct {
	name string
	run  func(ctx context.Context, r *Result) (string, error)
}

// Run analyzes the document rooted at root. A partial Result is returned
// with ErrValidationFailed so callers can report the findings.
func (p *Pipeline) Run(ctx context.Context, root string) (*Result, error) {
	stages := []stage{
		{"bundle", p.bundle(root)},
		{"validate", p.validate},
	}
	if !p.opts.ValidateOnly {
		stages = append(stages,
			stage{"channels", p.channels},
			stage{"discover", p.discover},
			stage{"normalize", p.normalize},
			stage{"graph", p.graph},
			stage{"map types", p.mapTypes},
		)
	}

	r := &Result{}
	for i, s := range stages {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		info := progress.StageInfo{Name: s.name, Number: i + 1, TotalStages: len(stages), Status: progress.StageInProgress}
		if err := p.opts.Observer.StartStage(info); err != nil {
			return r, err
		}
		detail, err := s.run(ctx, r)
		if err != nil {
			info.Status = progress.StageFailed
			_ = p.opts.Observer.FailStage(info, err)
			return r, err
		}
		info.Status, info.Detail = progress.StageCompleted, detail
		if err := p.opts.Observer.CompleteStage(info); err != nil {
			return r, err
		}
	}

	p.opts.Logger.Info("Analysis complete",
		"document", root,
		"files", len(r.Document.Files),
		"channels", len(r.Channels),
		"schemas", r.Schemas.Len())
	return r, nil
}

func (p *Pipeline) bundle(root string) func(context.Context, *Result) (string, error) {
	return func(ctx context.Context, r *Result) (string, error) {
		opts := []resolver.Option{resolver.WithLogger(p.opts.Logger)}
		if p.opts.MaxFiles > 0 {
			opts = append(opts, resolver.WithMaxFiles(p.opts.MaxFiles))
		}
		doc, err := resolver.New(p.src, opts...).Bundle(ctx, root)
		if err != nil {
			return "", fmt.Errorf("bundling %s: %w", root, err)
		}
		r.Document = doc
		return plural(len(doc.Files), "file"), nil
	}
}

func (p *Pipeline) validate(_ context.Context, r *Result) (string, error) {
	r.Validation = validation.New().Validate(r.Document)
	for _, w := range r.Validation.Warnings {
		p.opts.Logger.Debug("Validation warning", "context", w.Context, "message", w.Text)
	}
	detail := fmt.Sprintf("%s, %s", plural(len(r.Validation.Errors), "error"), plural(len(r.Validation.Warnings), "warning"))
	if !r.Validation.Valid() || (p.opts.FailOnWarnings && r.Validation.HasWarnings()) {
		return detail, fmt.Errorf("%w: %s", ErrValidationFailed, detail)
	}
	return detail, nil
}

func (p *Pipeline) channels(_ context.Context, r *Result) (string, error) {
	chs, err := channels.Analyze(r.Document)
	if err != nil {
		return "", fmt.Errorf("analyzing channels: %w", err)
	}
	r.Channels = chs
	return plural(len(chs), "channel"), nil
}

func (p *Pipeline) discover(_ context.Context, r *Result) (string, error) {
	m, err := discovery.Seed(r.Document, p.opts.Policy)
	if err != nil {
		return "", fmt.Errorf("naming component schemas: %w", err)
	}
	if err := seedPayloads(m, r.Channels, p.opts.Policy); err != nil {
		return "", err
	}

	out, err := discovery.Pipeline{Policy: p.opts.Policy, Logger: p.opts.Logger}.Run(m)
	if err != nil {
		return "", err
	}
	r.Schemas, r.Polymorphic = out.Schemas, out.Polymorphic
	return plural(r.Schemas.Len(), "schema"), nil
}

func (p *Pipeline) normalize(_ context.Context, r *Result) (string, error) {
	r.Schemas = normalize.Normalize(r.Schemas)
	return "", nil
}

func (p *Pipeline) graph(_ context.Context, r *Result) (string, error) {
	r.Graph = schemagraph.Build(r.Schemas)
	waves := r.Graph.ComputeWaves()
	if rec := r.Graph.Recursive(); len(rec) > 0 {
		p.opts.Logger.Debug("Recursive schemas", "sets", rec)
	}
	return plural(len(waves), "wave"), nil
}

func (p *Pipeline) mapTypes(_ context.Context, r *Result) (string, error) {
	r.Engine = typemap.New(*p.opts.Target)
	types, err := MapTypes(r.Engine, r.Schemas, r.Graph)
	if err != nil {
		return "", err
	}
	r.Types = types
	return plural(len(types), "type"), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
