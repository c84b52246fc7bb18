// Package cli holds the logic behind the automaton commands, kept out of
// cmd/automaton so it can be tested without a process boundary.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/config"
	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/adapters/file"
	"github.com/aretw0/automaton/pkg/adapters/memory"
	"github.com/aretw0/automaton/pkg/adapters/redis"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/observability"
	"github.com/aretw0/automaton/pkg/persistence/middleware"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/session"
)

// NewLogger builds the application logger from the log section.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}

// Backend is the design store selected by the configuration.
type Backend struct {
	Store  ports.DesignStore
	Locker ports.DistributedLocker // nil unless the store is shared between processes

	close func() error
}

// Close releases connections held by the store.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// NewBackend creates the store named by cfg.Store.Kind.
func NewBackend(cfg config.Config) (*Backend, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil
	case config.StoreFile:
		return &Backend{Store: file.New(cfg.Store.Path)}, nil
	case config.StoreRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.Redis.TTL),
			redis.WithPrefix(prefix),
		)
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), prefix),
			close:  store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

// NewSessionManager wires a session manager over the backend. Store calls are
// logged and stored code is validated on the way in and out.
func NewSessionManager(b *Backend, logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	store := middleware.Wrap(b.Store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewValidationMiddleware(),
	)
	return session.NewManager(store, opts...)
}

// EngineOptions maps the configuration onto engine options. Searches are logged
// through the observability hooks.
func EngineOptions(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) []automaton.Option {
	all := append([]domain.LifecycleHooks{observability.LogHooks(logger)}, hooks...)
	return []automaton.Option{
		automaton.WithConfig(cfg.Execution),
		automaton.WithLogger(logger),
		automaton.WithLifecycleHooks(observability.Chain(all...)),
	}
}
