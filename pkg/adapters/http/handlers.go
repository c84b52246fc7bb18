package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/automaton/internal/presentation/graph"
	"github.com/aretw0/automaton/internal/runtime"
	"github.com/aretw0/automaton/internal/validator"
	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/observability"
	"github.com/aretw0/automaton/pkg/schema"
)

// ExecutionOverride tightens the server bounds for one request.
// Values above the server bounds are clamped to them.
type ExecutionOverride struct {
	DepthLimit *uint `json:"depth_limit,omitempty"`
	MaxSteps   *uint `json:"max_steps,omitempty"`
}

func (o *ExecutionOverride) apply(cfg domain.ExecutionConfig) domain.ExecutionConfig {
	if o == nil {
		return cfg
	}
	return cfg.Narrow(o.DepthLimit, o.MaxSteps)
}

// RunRequest is the body of POST /designs/{id}/execute.
type RunRequest struct {
	Input    string             `json:"input"`
	SavePath bool               `json:"save_path"`
	Config   *ExecutionOverride `json:"config,omitempty"`
}

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Code *schema.Code `json:"code"`
	RunRequest
}

// ExecuteResponse is the search result with a summary of the automaton.
// Path entries carry state ids, which are reassigned when a stored design is
// reloaded; StateNames resolves them for this response.
type ExecuteResponse struct {
	domain.ExecutionResult
	Outcome       string         `json:"outcome"`
	States        int            `json:"states"`
	Deterministic bool           `json:"deterministic"`
	StateNames    map[int]string `json:"state_names"`
}

// GraphRequest is the body of POST /graph.
type GraphRequest struct {
	Code  *schema.Code `json:"code"`
	Input *string      `json:"input,omitempty"`
}

func (s *Server) checkSize(d *designer.Designer) error {
	if s.policy.MaxStates > 0 && d.CountStates() > s.policy.MaxStates {
		return fmt.Errorf("%w: %d states exceed the limit of %d", ErrPolicy, d.CountStates(), s.policy.MaxStates)
	}
	return nil
}

func (s *Server) hooks() domain.LifecycleHooks {
	hooks := observability.LogHooks(s.logger)
	if s.metrics != nil {
		hooks = observability.Chain(hooks, s.metrics.Hooks())
	}
	return hooks
}

// run applies the policy and searches the designer's current automaton.
func (s *Server) run(ctx context.Context, d *designer.Designer, req RunRequest) (ExecuteResponse, error) {
	if err := s.checkSize(d); err != nil {
		return ExecuteResponse{}, err
	}
	if s.policy.RequireDeterministic && !d.IsDeterministic() {
		return ExecuteResponse{}, fmt.Errorf("%w: automaton is not deterministic", ErrPolicy)
	}

	exec, err := runtime.NewExecutor(d.Snapshot(),
		runtime.WithConfig(req.Config.apply(s.execution)),
		runtime.WithLifecycleHooks(s.hooks()),
		runtime.WithLogger(s.logger),
	)
	if err != nil {
		return ExecuteResponse{}, err
	}

	res := exec.Execute(ctx, req.Input, req.SavePath)
	if res.Path == nil {
		res.Path = []domain.TransitionStep{}
	}

	ids := exec.Automaton().IDs()
	names := make(map[int]string, len(ids))
	for _, id := range ids {
		names[id] = d.Name(id)
	}
	return ExecuteResponse{
		ExecutionResult: res,
		Outcome:         res.Outcome(),
		States:          exec.CountStates(),
		Deterministic:   exec.IsDeterministic(),
		StateNames:      names,
	}, nil
}

// Execute handles the POST /execute request.
func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	var body ExecuteRequest
	if !s.decode(w, r, &body) {
		return
	}
	d, err := designer.FromCode(body.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.run(r.Context(), d, body.RunRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Analyze handles the POST /analyze request.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code *schema.Code `json:"code"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	d, err := designer.FromCode(body.Code)
	if err == nil {
		err = s.checkSize(d)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, validator.Analyze(d.Snapshot()))
}

// Graph handles the POST /graph request. With an input word the search path is overlaid.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	var body GraphRequest
	if !s.decode(w, r, &body) {
		return
	}
	d, err := designer.FromCode(body.Code)
	if err == nil {
		err = s.checkSize(d)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := map[string]any{}
	var overlay *graph.Overlay
	if body.Input != nil {
		res, err := s.run(r.Context(), d, RunRequest{Input: *body.Input, SavePath: true})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		overlay = &graph.Overlay{Path: res.Path}
		resp["accepted"] = res.Accepted
	}
	resp["mermaid"] = graph.GenerateMermaid(d.Snapshot(), overlay)
	s.writeJSON(w, http.StatusOK, resp)
}
