package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/schema"
)

type loggingMiddleware struct {
	next   ports.DesignStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and failures at warn.
// A missing design is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.DesignStore) ports.DesignStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, id string, start time.Time, err error) {
	if errors.Is(err, domain.ErrDesignNotFound) {
		m.logger.DebugContext(ctx, "store_call", "op", op, "design", id, "found", false)
		return
	}
	if err != nil {
		m.logger.WarnContext(ctx, "store_call_failed", "op", op, "design", id, "err", err)
		return
	}
	m.logger.DebugContext(ctx, "store_call", "op", op, "design", id, "duration", time.Since(start))
}

func (m *loggingMiddleware) Save(ctx context.Context, id string, code *schema.Code) error {
	start := time.Now()
	err := m.next.Save(ctx, id, code)
	m.log(ctx, "save", id, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*schema.Code, error) {
	start := time.Now()
	code, err := m.next.Load(ctx, id)
	m.log(ctx, "load", id, start, err)
	return code, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log(ctx, "delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}
