package automaton

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/internal/presentation/graph"
	"github.com/aretw0/automaton/internal/runtime"
	"github.com/aretw0/automaton/internal/validator"
	"github.com/aretw0/automaton/pkg/animator"
	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/schema"
)

// Engine is the high-level entry point of the library.
// It owns a designer and runs every search against the designer's current snapshot,
// so edits made through Designer() are visible to the next Execute.
type Engine struct {
	designer *designer.Designer
	config   domain.ExecutionConfig
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

var _ ports.Executor = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfig sets the search bounds.
func WithConfig(cfg domain.ExecutionConfig) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine over an empty automaton holding only the initial state.
func New(kind domain.Kind, alphabet, stackAlphabet []string, initial string, opts ...Option) (*Engine, error) {
	d, err := designer.New(kind, alphabet, stackAlphabet, initial)
	if err != nil {
		return nil, err
	}
	return FromDesigner(d, opts...), nil
}

// FromDesigner wraps an existing designer.
func FromDesigner(d *designer.Designer, opts ...Option) *Engine {
	e := &Engine{
		designer: d,
		config:   domain.DefaultExecutionConfig(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromCode validates code and builds an engine from it.
func FromCode(code *schema.Code, opts ...Option) (*Engine, error) {
	d, err := designer.FromCode(code)
	if err != nil {
		return nil, err
	}
	return FromDesigner(d, opts...), nil
}

// Parse builds an engine from JSON or YAML code.
func Parse(data []byte, opts ...Option) (*Engine, error) {
	code, err := schema.Parse(data)
	if err != nil {
		return nil, err
	}
	return FromCode(code, opts...)
}

// Open reads code from a file.
func Open(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read automaton: %w", err)
	}
	e, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("automaton loaded", "path", path, "kind", e.designer.Kind(), "states", e.CountStates())
	return e, nil
}

// Save writes the current code to path, as YAML for .yaml/.yml and JSON otherwise.
func (e *Engine) Save(path string) error {
	code := e.designer.Code()
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = code.YAML()
	default:
		data, err = code.JSON()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Designer returns the designer the engine runs against.
func (e *Engine) Designer() *designer.Designer {
	return e.designer
}

// Code returns the serialized form of the current automaton.
func (e *Engine) Code() *schema.Code {
	return e.designer.Code()
}

// Automaton returns the current snapshot.
func (e *Engine) Automaton() *domain.Automaton {
	return e.designer.Snapshot()
}

// SetConfig replaces the search bounds.
func (e *Engine) SetConfig(cfg domain.ExecutionConfig) {
	e.config = cfg
}

// Config returns the search bounds.
func (e *Engine) Config() domain.ExecutionConfig {
	return e.config
}

func (e *Engine) CountStates() int {
	return e.designer.CountStates()
}

func (e *Engine) IsDeterministic() bool {
	return e.designer.IsDeterministic()
}

// Execute decides membership of input in the current automaton.
func (e *Engine) Execute(ctx context.Context, input string, savePath bool) domain.ExecutionResult {
	return e.execute(ctx, e.designer.Snapshot(), input, savePath)
}

func (e *Engine) execute(ctx context.Context, a *domain.Automaton, input string, savePath bool) domain.ExecutionResult {
	exec, err := runtime.NewExecutor(a,
		runtime.WithConfig(e.config),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	)
	if err != nil {
		// Designer snapshots always pass the executor checks.
		e.logger.Error("executor rejected designer snapshot", "err", err)
		return domain.ExecutionResult{Path: []domain.TransitionStep{}}
	}
	return exec.Execute(ctx, input, savePath)
}

// Report is the analysis returned by Engine.Analyze.
type Report = validator.Report

// Analyze reports unreachable and dead states of the current automaton.
func (e *Engine) Analyze() Report {
	return validator.Analyze(e.designer.Snapshot())
}

// Mermaid exports the current automaton as a Mermaid flowchart, highlighting path when set.
func (e *Engine) Mermaid(path []domain.TransitionStep) string {
	var overlay *graph.Overlay
	if path != nil {
		overlay = &graph.Overlay{Path: path}
	}
	return graph.GenerateMermaid(e.designer.Snapshot(), overlay)
}

// Animator creates an animator replaying searches of this engine.
func (e *Engine) Animator(opts ...animator.Option) *animator.Animator {
	return animator.New(e, append([]animator.Option{animator.WithLogger(e.logger)}, opts...)...)
}
