package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/internal/validator"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const designURIPrefix = "automaton://designs/"

// PathStep is one transition of a search path, with state names resolved.
type PathStep struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// ExecuteResponse aligns with the HTTP API result.
type ExecuteResponse struct {
	Accepted          bool       `json:"accepted" jsonschema_description:"Whether some path consumes the whole input and ends in a final state"`
	Outcome           string     `json:"outcome" jsonschema_description:"accepted, rejected, depth_limit or max_steps"`
	DepthLimitReached bool       `json:"depth_limit_reached" jsonschema_description:"Some branch was cut by the depth limit"`
	MaxLimitReached   bool       `json:"max_limit_reached" jsonschema_description:"The search stopped at the step budget"`
	Steps             int        `json:"steps" jsonschema_description:"Configurations examined"`
	States            int        `json:"states"`
	Deterministic     bool       `json:"deterministic"`
	Path              []PathStep `json:"path" jsonschema_description:"Transitions of the accepting path, when save_path is set"`
}

// GraphResponse carries a Mermaid flowchart.
type GraphResponse struct {
	Mermaid  string `json:"mermaid"`
	Accepted *bool  `json:"accepted,omitempty"`
}

// Source selects the automaton a tool works on: inline code or a stored design.
type Source struct {
	Code   string `json:"code,omitempty"`
	Design string `json:"design,omitempty"`
}

// ExecuteArgs are the arguments of the execute tool.
type ExecuteArgs struct {
	Source
	Input      string `json:"input"`
	SavePath   bool   `json:"save_path,omitempty"`
	DepthLimit *uint  `json:"depth_limit,omitempty"`
	MaxSteps   *uint  `json:"max_steps,omitempty"`
}

// GraphArgs are the arguments of the graph tool.
type GraphArgs struct {
	Source
	Input *string `json:"input,omitempty"`
}

// Server exposes the engine as an MCP server.
type Server struct {
	sessions  *session.Manager
	config    domain.ExecutionConfig
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions lets tools address stored designs by id.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithExecutionConfig sets the default search bounds.
func WithExecutionConfig(cfg domain.ExecutionConfig) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithLifecycleHooks registers observability hooks on every search.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		config:    domain.DefaultExecutionConfig(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("automaton-mcp", strings.TrimSpace(automaton.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if s.sessions != nil {
		s.registerResources()
	}
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	codeDesc := "Automaton code as JSON or YAML ({type: FSM|PDA, automaton: {...}})"
	designDesc := "Id of a stored design, used when code is omitted"

	s.mcpServer.AddTool(mcp.NewTool("execute",
		mcp.WithDescription("Decide whether the automaton accepts the input word."),
		mcp.WithString("code", mcp.Description(codeDesc)),
		mcp.WithString("design", mcp.Description(designDesc)),
		mcp.WithString("input", mcp.Required(), mcp.Description("Word to test, one symbol per character")),
		mcp.WithBoolean("save_path", mcp.Description("Return the accepting path")),
		mcp.WithNumber("depth_limit", mcp.Description("Maximum transitions on one branch, capped by the server limit"), mcp.Min(0)),
		mcp.WithNumber("max_steps", mcp.Description("Maximum configurations examined, capped by the server limit"), mcp.Min(0)),
		mcp.WithOutputSchema[ExecuteResponse](),
	), mcp.NewStructuredToolHandler(s.handleExecute))

	s.mcpServer.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Report determinism, unreachable and dead states and unused symbols."),
		mcp.WithString("code", mcp.Description(codeDesc)),
		mcp.WithString("design", mcp.Description(designDesc)),
		mcp.WithOutputSchema[validator.Report](),
	), mcp.NewStructuredToolHandler(s.handleAnalyze))

	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Export the automaton as a Mermaid flowchart, optionally highlighting the path of a word."),
		mcp.WithString("code", mcp.Description(codeDesc)),
		mcp.WithString("design", mcp.Description(designDesc)),
		mcp.WithString("input", mcp.Description("Word whose search path is highlighted")),
		mcp.WithOutputSchema[GraphResponse](),
	), mcp.NewStructuredToolHandler(s.handleGraph))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("automaton://designs", "Stored designs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list designs: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "automaton://designs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(designURIPrefix+"{id}", "Stored design code",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, designURIPrefix)
		d, err := s.sessions.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		jsonBytes, err := d.Code().JSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// engine resolves the tool source into an engine.
func (s *Server) engine(ctx context.Context, src Source) (*automaton.Engine, error) {
	opts := []automaton.Option{
		automaton.WithConfig(s.config),
		automaton.WithLifecycleHooks(s.hooks),
		automaton.WithLogger(s.logger),
	}
	switch {
	case src.Code != "":
		return automaton.Parse([]byte(src.Code), opts...)
	case src.Design != "":
		if s.sessions == nil {
			return nil, errors.New("stored designs are not available on this server")
		}
		d, err := s.sessions.Load(ctx, src.Design)
		if err != nil {
			return nil, err
		}
		return automaton.FromDesigner(d, opts...), nil
	default:
		return nil, errors.New("either code or design is required")
	}
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest, args ExecuteArgs) (ExecuteResponse, error) {
	eng, err := s.engine(ctx, args.Source)
	if err != nil {
		return ExecuteResponse{}, err
	}
	eng.SetConfig(eng.Config().Narrow(args.DepthLimit, args.MaxSteps))

	res := eng.Execute(ctx, args.Input, args.SavePath)
	return ExecuteResponse{
		Accepted:          res.Accepted,
		Outcome:           res.Outcome(),
		DepthLimitReached: res.DepthLimitReached,
		MaxLimitReached:   res.MaxLimitReached,
		Steps:             res.Steps,
		States:            eng.CountStates(),
		Deterministic:     eng.IsDeterministic(),
		Path:              namedPath(eng, res.Path),
	}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args Source) (validator.Report, error) {
	eng, err := s.engine(ctx, args)
	if err != nil {
		return validator.Report{}, err
	}
	return eng.Analyze(), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest, args GraphArgs) (GraphResponse, error) {
	eng, err := s.engine(ctx, args.Source)
	if err != nil {
		return GraphResponse{}, err
	}
	if args.Input == nil {
		return GraphResponse{Mermaid: eng.Mermaid(nil)}, nil
	}
	res := eng.Execute(ctx, *args.Input, true)
	return GraphResponse{Mermaid: eng.Mermaid(res.Path), Accepted: &res.Accepted}, nil
}

func namedPath(eng *automaton.Engine, path []domain.TransitionStep) []PathStep {
	d := eng.Designer()
	steps := make([]PathStep, 0, len(path))
	for _, p := range path {
		steps = append(steps, PathStep{From: d.Name(p.From), To: d.Name(p.To), Label: p.Label.String()})
	}
	return steps
}
