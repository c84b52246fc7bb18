package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTransitionStep_JSON(t *testing.T) {
	steps := []TransitionStep{
		{From: 0, To: 1, Label: Label{Input: "1"}},
		{From: 0, To: 0, Label: Label{Input: "(", Pop: Bottom, Push: []string{Bottom, "A"}}},
	}

	data, err := json.Marshal(steps)
	if err != nil {
		t.Fatal(err)
	}
	want := `[[0,1,"1"],[0,0,{"input":"(","top":"⊥","push":["⊥","A"]}]]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back []TransitionStep
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, steps) {
		t.Errorf("Unmarshal = %+v, want %+v", back, steps)
	}

	var bad TransitionStep
	if err := json.Unmarshal([]byte(`[0,1]`), &bad); err == nil {
		t.Error("expected error for a two element step")
	}
}

func TestExecutionResult_Outcome(t *testing.T) {
	tests := []struct {
		result ExecutionResult
		want   string
	}{
		{ExecutionResult{Accepted: true, DepthLimitReached: true}, "accepted"},
		{ExecutionResult{MaxLimitReached: true, DepthLimitReached: true}, "max_steps"},
		{ExecutionResult{DepthLimitReached: true}, "depth_limit"},
		{ExecutionResult{}, "rejected"},
	}
	for _, tt := range tests {
		if got := tt.result.Outcome(); got != tt.want {
			t.Errorf("Outcome(%+v) = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestExecutionConfig_Narrow(t *testing.T) {
	base := ExecutionConfig{DepthLimit: 100, MaxSteps: 50}
	u := func(v uint) *uint { return &v }

	tests := []struct {
		name              string
		depthLimit, steps *uint
		want              ExecutionConfig
	}{
		{"unset", nil, nil, base},
		{"lower", u(10), u(5), ExecutionConfig{DepthLimit: 10, MaxSteps: 5}},
		{"higher is clamped", u(1_000_000), u(1_000_000), base},
		{"zero", u(0), nil, ExecutionConfig{DepthLimit: 0, MaxSteps: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Narrow(tt.depthLimit, tt.steps); got != tt.want {
				t.Errorf("Narrow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
