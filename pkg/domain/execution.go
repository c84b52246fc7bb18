package domain

import (
	"encoding/json"
	"fmt"
)

// ExecutionConfig bounds a single membership search.
type ExecutionConfig struct {
	// DepthLimit is the maximum number of transitions taken in one search branch.
	DepthLimit uint `json:"depth_limit" yaml:"depth_limit" mapstructure:"depth_limit"`

	// MaxSteps is the maximum number of configurations expanded across the whole search.
	MaxSteps uint `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`
}

// DefaultExecutionConfig returns the bounds used when a caller sets none.
func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		DepthLimit: 1000,
		MaxSteps:   100000,
	}
}

// Narrow lowers the bounds to the requested values. A nil request or one above
// the current bound leaves that bound unchanged.
func (c ExecutionConfig) Narrow(depthLimit, maxSteps *uint) ExecutionConfig {
	if depthLimit != nil {
		c.DepthLimit = min(c.DepthLimit, *depthLimit)
	}
	if maxSteps != nil {
		c.MaxSteps = min(c.MaxSteps, *maxSteps)
	}
	return c
}

// TransitionStep records one transition taken on a search path.
// It serializes as the array [from, to, label].
type TransitionStep struct {
	From  int
	To    int
	Label Label
}

func (s TransitionStep) MarshalJSON() ([]byte, error) {
	var label any = s.Label
	if s.Label.Pop == "" {
		label = s.Label.Input
	}
	return json.Marshal([]any{s.From, s.To, label})
}

func (s *TransitionStep) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("transition step: expected 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.From); err != nil {
		return fmt.Errorf("transition step: from: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.To); err != nil {
		return fmt.Errorf("transition step: to: %w", err)
	}

	var symbol string
	if err := json.Unmarshal(raw[2], &symbol); err == nil {
		s.Label = Label{Input: symbol}
		return nil
	}
	if err := json.Unmarshal(raw[2], &s.Label); err != nil {
		return fmt.Errorf("transition step: label: %w", err)
	}
	return nil
}

// ExecutionResult is the outcome of a membership search.
//
// DepthLimitReached and MaxLimitReached may accompany a rejection and change how it
// should be reported: a rejection under an exhausted budget is not a proof of non-membership.
type ExecutionResult struct {
	Accepted          bool             `json:"accepted"`
	DepthLimitReached bool             `json:"depth_limit_reached"`
	MaxLimitReached   bool             `json:"max_limit_reached"`
	Path              []TransitionStep `json:"path"`

	// Steps is the number of configurations popped during the search.
	Steps int `json:"steps"`
}

// Outcome classifies the result for reporting and metrics.
func (r ExecutionResult) Outcome() string {
	switch {
	case r.Accepted:
		return "accepted"
	case r.MaxLimitReached:
		return "max_steps"
	case r.DepthLimitReached:
		return "depth_limit"
	default:
		return "rejected"
	}
}
