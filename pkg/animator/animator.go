// Package animator replays an accepting path on a timer.
//
// The search runs to completion first; the animator only schedules presentation
// callbacks over the recorded path, one sub-step per tick.
package animator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/domain"
)

// DefaultInterval is the delay between two sub-steps.
const DefaultInterval = 500 * time.Millisecond

// Replayer is the part of the executor the animator needs.
type Replayer interface {
	Automaton() *domain.Automaton
	Execute(ctx context.Context, input string, savePath bool) domain.ExecutionResult
}

// Callbacks receive the replay. Nil callbacks are skipped.
type Callbacks struct {
	OnStart         func()
	OnFinish        func()
	SetAnimatedData func(Frame)
	Move            func()
}

// Animator drives one replay at a time. Callbacks of a replay never run
// concurrently with each other.
type Animator struct {
	exec     Replayer
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	running    bool
}

// Option configures an Animator.
type Option func(*Animator)

// WithInterval sets the delay between sub-steps.
func WithInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an animator over exec.
func New(exec Replayer, opts ...Option) *Animator {
	a := &Animator{
		exec:     exec,
		interval: DefaultInterval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start re-runs the search for word with path recording and replays the accepting
// path. It returns false, without replaying, when word is rejected. Any replay in
// progress is stopped first.
func (a *Animator) Start(word string, cb Callbacks) bool {
	result := a.exec.Execute(context.Background(), word, true)
	if !result.Accepted {
		a.logger.Debug("animation skipped", "word", word, "outcome", result.Outcome())
		return false
	}

	steps := buildFrames(a.exec.Automaton().Kind, result.Path)

	a.mu.Lock()
	a.stopLocked()
	gen := a.generation
	a.running = true
	a.mu.Unlock()

	a.logger.Debug("animation started", "word", word, "sub_steps", len(steps))
	if cb.OnStart != nil {
		cb.OnStart()
	}

	a.mu.Lock()
	if a.generation == gen {
		a.schedule(gen, steps, 0, cb)
	}
	a.mu.Unlock()
	return true
}

// Stop cancels the pending tick. It is safe to call at any time, more than once.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		a.logger.Debug("animation stopped")
	}
	a.stopLocked()
}

// Running reports whether a replay is in progress.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Animator) stopLocked() {
	a.generation++
	a.running = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// schedule arms the tick for sub-step i. The caller holds a.mu.
func (a *Animator) schedule(gen uint64, steps []subStep, i int, cb Callbacks) {
	a.timer = time.AfterFunc(a.interval, func() {
		a.tick(gen, steps, i, cb)
	})
}

func (a *Animator) tick(gen uint64, steps []subStep, i int, cb Callbacks) {
	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return
	}
	if i == len(steps) {
		a.timer = nil
		a.running = false
		a.mu.Unlock()

		a.logger.Debug("animation finished")
		if cb.OnFinish != nil {
			cb.OnFinish()
		}
		return
	}
	a.mu.Unlock()

	s := steps[i]
	if cb.SetAnimatedData != nil {
		cb.SetAnimatedData(s.frame)
	}
	if s.move && cb.Move != nil {
		cb.Move()
	}

	a.mu.Lock()
	if a.generation == gen {
		a.schedule(gen, steps, i+1, cb)
	}
	a.mu.Unlock()
}
