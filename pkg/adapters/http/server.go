package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/observability"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/aretw0/automaton/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrPolicy is returned when an automaton exceeds the limits the server accepts.
var ErrPolicy = errors.New("policy violation")

// Policy limits the automata the server agrees to run.
type Policy struct {
	// MaxStates rejects automata with more states. Zero disables the check.
	MaxStates int

	RequireDeterministic bool
}

// Server serves the automaton API over a session manager.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	execution domain.ExecutionConfig
	policy    Policy
	metrics   *observability.Metrics
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	validator *requestValidator
}

// Option configures the Server.
type Option func(*Server)

// WithExecutionConfig sets the default search bounds. Requests may override them.
func WithExecutionConfig(cfg domain.ExecutionConfig) Option {
	return func(s *Server) {
		s.execution = cfg
	}
}

// WithPolicy sets the limits applied before every execution.
func WithPolicy(p Policy) Option {
	return func(s *Server) {
		s.policy = p
	}
}

// WithMetrics feeds executions into m and exposes g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server over the given session manager.
func NewServer(sessions *session.Manager, opts ...Option) (*Server, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	s := &Server{
		Sessions:  sessions,
		Streams:   NewStreamManager(),
		execution: domain.DefaultExecutionConfig(),
		logger:    logging.NewNop(),
		validator: v,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s, nil
}

// NewHandler creates the HTTP handler for the automaton API.
func NewHandler(sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s, err := NewServer(sessions, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.validator.middleware(s.logger))

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Post("/execute", s.Execute)
		r.Post("/analyze", s.Analyze)
		r.Post("/graph", s.Graph)

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", s.ListDesigns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetDesign)
				r.Put("/", s.PutDesign)
				r.Delete("/", s.DeleteDesign)
				r.Get("/events", s.SubscribeEvents)
				r.Post("/states", s.AddState)
				r.Delete("/states/{name}", s.RemoveState)
				r.Post("/states/{name}/final", s.SwitchFinal)
				r.Post("/states/{name}/rename", s.RenameState)
				r.Put("/states/{name}/position", s.MoveState)
				r.Put("/transitions", s.SetTransition)
				r.Delete("/transitions/{from}/{to}", s.RemoveTransition)
				r.Post("/execute", s.ExecuteDesign)
			})
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Automaton API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.validator.doc.Info != nil {
		apiVersion = s.validator.doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "automaton-http",
		"version":     strings.TrimSpace(automaton.Version),
		"api_version": apiVersion,
	})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	var edit *domain.EditError
	var invalid *schema.AggregateError
	switch {
	case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrDesignExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownState), errors.Is(err, domain.ErrDesignNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPolicy), errors.As(err, &edit), errors.As(err, &invalid),
		errors.Is(err, domain.ErrInconsistentAutomaton):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}

	body := errorBody{Error: err.Error()}
	for _, e := range schema.ValidationErrors(err) {
		body.Details = append(body.Details, e.Error())
	}
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// decode reads a JSON body. It reports the failure itself and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}
