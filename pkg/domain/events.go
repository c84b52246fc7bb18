package domain

import (
	"context"
	"time"
)

// ExecutionEvent describes one membership search.
type ExecutionEvent struct {
	Timestamp   time.Time       `json:"timestamp"`
	Kind        Kind            `json:"kind"`
	InputLength int             `json:"input_length"`
	Config      ExecutionConfig `json:"config"`

	// Result and Duration are only set on finish.
	Result   *ExecutionResult `json:"result,omitempty"`
	Duration time.Duration    `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for executor observability.
type LifecycleHooks struct {
	OnExecuteStart  func(context.Context, *ExecutionEvent)
	OnExecuteFinish func(context.Context, *ExecutionEvent)
}
