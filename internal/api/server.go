// Package api provides the HTTP API server and handlers for the brain server.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/secondbrain/brain-server/internal/store"
)

// Options configures a Server.
type Options struct {
	// PublicURL prefixes share links. Links are relative when empty.
	PublicURL string

	// AllowedOrigins lists the CORS origins; "*" allows any.
	AllowedOrigins []string

	// Metrics enables request instrumentation and GET /metrics when set.
	Metrics *Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	router    *chi.Mux
	api       huma.API
	metrics   *Metrics
	publicURL string
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		store:     st,
		services:  services,
		router:    chi.NewRouter(),
		metrics:   opts.Metrics,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		logger:    logger,
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Second Brain API", APIVersion)
	// Response bodies keep the exact shapes clients expect; no $schema links.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		securityScheme: {
			Type: "apiKey",
			In:   "header",
			Name: "Authorization",
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerContentRoutes()
	s.registerShareRoutes()
	s.registerTagRoutes()
	s.registerUserRoutes()

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the underlying huma API, mainly for OpenAPI export and tests.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
// chi requires every middleware to be registered before the first route.
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
}
