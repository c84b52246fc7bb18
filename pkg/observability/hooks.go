package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/automaton/pkg/domain"
)

// LogHooks logs every search at debug level when it starts and at info level when it ends.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecuteStart: func(ctx context.Context, e *domain.ExecutionEvent) {
			logger.DebugContext(ctx, "execute_start",
				"kind", e.Kind,
				"input_length", e.InputLength,
				"depth_limit", e.Config.DepthLimit,
				"max_steps", e.Config.MaxSteps,
			)
		},
		OnExecuteFinish: func(ctx context.Context, e *domain.ExecutionEvent) {
			if e.Result == nil {
				return
			}
			logger.InfoContext(ctx, "execute_finish",
				"kind", e.Kind,
				"outcome", e.Result.Outcome(),
				"steps", e.Result.Steps,
				"duration", e.Duration,
			)
		},
	}
}

// Chain combines hooks; each event reaches them in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecuteStart: func(ctx context.Context, e *domain.ExecutionEvent) {
			for _, h := range hooks {
				if h.OnExecuteStart != nil {
					h.OnExecuteStart(ctx, e)
				}
			}
		},
		OnExecuteFinish: func(ctx context.Context, e *domain.ExecutionEvent) {
			for _, h := range hooks {
				if h.OnExecuteFinish != nil {
					h.OnExecuteFinish(ctx, e)
				}
			}
		},
	}
}
