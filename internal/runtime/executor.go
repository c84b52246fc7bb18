// Package runtime implements the automaton executor: a bounded, possibly
// nondeterministic membership search over the configurations of an FSM or PDA.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/domain"
)

// Executor decides membership of strings for one automaton snapshot.
//
// An Executor is owned by its caller and is not safe for concurrent use; concurrent
// judging needs one Executor per execution.
type Executor struct {
	automaton *domain.Automaton
	config    domain.ExecutionConfig
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithConfig sets the search bounds.
func WithConfig(cfg domain.ExecutionConfig) Option {
	return func(e *Executor) {
		e.config = cfg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor for the given snapshot.
// It fails with domain.ErrInconsistentAutomaton when the snapshot breaks the
// invariants the designer maintains; a valid snapshot can never make Execute fail.
func NewExecutor(a *domain.Automaton, opts ...Option) (*Executor, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil automaton", domain.ErrInconsistentAutomaton)
	}
	if err := a.Check(); err != nil {
		return nil, err
	}

	e := &Executor{
		automaton: a,
		config:    domain.DefaultExecutionConfig(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetConfig replaces the search bounds.
func (e *Executor) SetConfig(cfg domain.ExecutionConfig) {
	e.config = cfg
}

// Config returns the search bounds.
func (e *Executor) Config() domain.ExecutionConfig {
	return e.config
}

// Automaton returns the snapshot being executed.
func (e *Executor) Automaton() *domain.Automaton {
	return e.automaton
}

// CountStates returns the number of states of the automaton.
func (e *Executor) CountStates() int {
	return e.automaton.CountStates()
}

// IsDeterministic reports whether the automaton is deterministic.
func (e *Executor) IsDeterministic() bool {
	return e.automaton.IsDeterministic()
}

// Execute searches for an accepting configuration for input.
//
// Exhausted budgets are reported through the result flags, never as errors. The
// search runs to completion synchronously: ctx only reaches the lifecycle hooks and
// MaxSteps is the sole circuit breaker. When savePath is false no path is recorded.
func (e *Executor) Execute(ctx context.Context, input string, savePath bool) domain.ExecutionResult {
	symbols := splitSymbols(input)
	event := &domain.ExecutionEvent{
		Timestamp:   time.Now(),
		Kind:        e.automaton.Kind,
		InputLength: len(symbols),
		Config:      e.config,
	}
	if e.hooks.OnExecuteStart != nil {
		e.hooks.OnExecuteStart(ctx, event)
	}

	var result domain.ExecutionResult
	switch e.automaton.Kind {
	case domain.KindFSM:
		result = search(fsmMoves{a: e.automaton}, symbols, e.config, savePath)
	case domain.KindPDA:
		result = search(pdaMoves{a: e.automaton}, symbols, e.config, savePath)
	}

	event.Result = &result
	event.Duration = time.Since(event.Timestamp)

	e.logger.Debug("execution finished",
		"kind", e.automaton.Kind,
		"input_length", len(symbols),
		"accepted", result.Accepted,
		"steps", result.Steps,
		"depth_limit_reached", result.DepthLimitReached,
		"max_limit_reached", result.MaxLimitReached,
		"duration", event.Duration)

	if e.hooks.OnExecuteFinish != nil {
		e.hooks.OnExecuteFinish(ctx, event)
	}
	return result
}

// splitSymbols splits input into one symbol per rune.
func splitSymbols(input string) []string {
	symbols := make([]string, 0, len(input))
	for _, r := range input {
		symbols = append(symbols, string(r))
	}
	return symbols
}
