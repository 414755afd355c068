// Package http serves the portfolio page and drives the contact form over HTTP.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/folio/internal/content"
	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HealthCheck probes a dependency (store, queue) for /health.
type HealthCheck func(ctx context.Context) error

// Server holds the collaborators of the HTTP adapter.
type Server struct {
	forms   *session.Dispatcher
	content *content.Source
	metrics *metrics.Metrics
	Streams *StreamManager
	logger  *slog.Logger

	version       string
	info          map[string]string
	checks        map[string]HealthCheck
	corsOrigins   []string
	secureCookies bool
	sessionTTL    time.Duration
	assetsDir     string
	now           func() time.Time
	page          *pageRenderer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics serves /metrics and counts social clicks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /info and the page footer.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithInfo adds static key/values to /info (store driver, backend...).
func WithInfo(key, value string) Option {
	return func(s *Server) { s.info[key] = value }
}

// WithHealthCheck registers a dependency probe for /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// WithCORSOrigins restricts cross-origin API access. Empty allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithSecureCookies marks the session cookie Secure (HTTPS deployments).
func WithSecureCookies(secure bool) Option {
	return func(s *Server) { s.secureCookies = secure }
}

// WithSessionTTL sets the lifetime of the session cookie.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessionTTL = ttl }
}

// WithAssetsDir serves dir under /assets/. When it holds folio.wasm and
// wasm_exec.js the page loads the WebAssembly client.
func WithAssetsDir(dir string) Option {
	return func(s *Server) { s.assetsDir = dir }
}

// NewServer creates the HTTP adapter. Observing the dispatcher wires form
// diffs to the session event streams.
func NewServer(forms *session.Dispatcher, src *content.Source, opts ...Option) *Server {
	s := &Server{
		forms:      forms,
		content:    src,
		logger:     logging.NewNop(),
		version:    "dev",
		info:       make(map[string]string),
		checks:     make(map[string]HealthCheck),
		sessionTTL: 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.page = newPageRenderer()
	forms.Observe(s.broadcastDiff)
	return s
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Post("/contact", s.handleContactForm)
	r.Handle("/static/*", staticHandler())
	if s.assetsDir != "" {
		r.Handle("/assets/*", s.assetsHandler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.cors())
		r.Get("/api/form", s.handleGetForm)
		r.Post("/api/form/events", s.handleFormEvent)
		r.Get("/api/form/graph", s.handleFormGraph)
		r.Post("/api/contact", s.handleContactAPI)
		r.Post("/api/analytics/social", s.handleSocialClick)
		r.Options("/api/*", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Get("/events", s.handleEvents)
	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) cors() func(http.Handler) http.Handler {
	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: len(s.corsOrigins) > 0,
		MaxAge:           300,
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// WatchContent broadcasts a reload event to every page when the content
// source changes. It returns when ctx is done or the source cannot be watched.
func (s *Server) WatchContent(ctx context.Context) error {
	events, err := s.content.Watch(ctx)
	if err != nil {
		return err
	}
	for name := range events {
		s.logger.Info("Content changed, notifying clients", "file", name)
		s.Streams.Broadcast(globalTopic, "reload")
	}
	return nil
}

func (s *Server) broadcastDiff(ctx context.Context, before, after *domain.Form) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Failed to encode form diff", "session_id", after.SessionID, "err", err)
		return
	}
	s.Streams.Broadcast(after.SessionID, string(data))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
