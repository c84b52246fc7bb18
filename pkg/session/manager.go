package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/schema"
)

// DefaultLockTTL bounds how long a crashed replica can hold a design lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes edits of stored designs.
// Locks are reference counted and dropped once no caller holds them.
type Manager struct {
	store ports.DesignStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.DesignStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create stores a new design. It fails with domain.ErrDesignExists when id is taken
// and with a validation error when code is not a well-formed automaton.
func (m *Manager) Create(ctx context.Context, id string, code *schema.Code) (*designer.Designer, error) {
	d, err := designer.FromCode(code)
	if err != nil {
		return nil, err
	}
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, id)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrDesignExists, id)
		case !errors.Is(err, domain.ErrDesignNotFound):
			return fmt.Errorf("failed to check design existence: %w", err)
		}
		return m.store.Save(ctx, id, d.Code())
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("design created", "design_id", id, "kind", d.Kind(), "states", d.CountStates())
	return d, nil
}

// Put stores code under id, replacing any previous design.
func (m *Manager) Put(ctx context.Context, id string, code *schema.Code) (*designer.Designer, error) {
	d, err := designer.FromCode(code)
	if err != nil {
		return nil, err
	}
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, d.Code())
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Load builds a designer from the stored design.
func (m *Manager) Load(ctx context.Context, id string) (*designer.Designer, error) {
	var d *designer.Designer
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		d, err = m.load(ctx, id)
		return err
	})
	return d, err
}

func (m *Manager) load(ctx context.Context, id string) (*designer.Designer, error) {
	code, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := designer.FromCode(code)
	if err != nil {
		return nil, fmt.Errorf("stored design %s is invalid: %w", id, err)
	}
	return d, nil
}

// Edit loads the design, applies fn and saves the result. Nothing is saved when fn
// fails, so a rejected edit leaves the stored design untouched.
func (m *Manager) Edit(ctx context.Context, id string, fn func(d *designer.Designer) error) (*designer.Designer, error) {
	var d *designer.Designer
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		if d, err = m.load(ctx, id); err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		return m.store.Save(ctx, id, d.Code())
	})
	if err != nil {
		m.logger.Debug("design edit rejected", "design_id", id, "err", err)
		return nil, err
	}
	return d, nil
}

// Delete removes the design from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying design store.
func (m *Manager) Store() ports.DesignStore {
	return m.store
}

// WithLock executes fn while holding the lock for the design.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"design_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
