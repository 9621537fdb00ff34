// Package api provides the HTTP API server and handlers for the Bibliohome catalog.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bibliohome/bibliohome-server/internal/config"
	"github.com/bibliohome/bibliohome-server/internal/http/response"
	"github.com/bibliohome/bibliohome-server/internal/metrics"
	"github.com/bibliohome/bibliohome-server/internal/ratelimit"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *sqlite.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	apiLimiter   *RateLimiter
	loginLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *sqlite.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		store:        st,
		services:     services,
		router:       chi.NewRouter(),
		logger:       logger,
		apiLimiter:   ratelimit.New(cfg.RateLimit.APIPerSecond, cfg.RateLimit.APIBurst),
		loginLimiter: NewRateLimiter(cfg.RateLimit.LoginPerMinute, time.Minute, cfg.RateLimit.LoginBurst),
	}

	// Middleware must be installed before any route.
	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", "1.0.0")
	humaConfig.Info.Description = "Personal catalog of books and movies across libraries"
	// Bodies are the bare catalog objects clients already consume; no $schema links.
	humaConfig.CreateHooks = nil
	configureFormats(&humaConfig)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.apiLimiter.Stop()
	s.loginLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(instrument)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimit)

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

// registerRoutes is the single table of every route the server exposes.
func (s *Server) registerRoutes() {
	for _, register := range []func(){
		s.registerHealthRoutes,
		s.registerBookRoutes,
		s.registerMovieRoutes,
		s.registerAuthorRoutes,
		s.registerGenreRoutes,
		s.registerSeriesRoutes,
		s.registerProductionCompanyRoutes,
		s.registerLibraryRoutes,
		s.registerInstanceRoutes,
		s.registerMediaInstanceRoutes,
		s.registerUserRoutes,
		s.registerAppSettingsRoutes,
		s.registerMediaTypeRoutes,
		s.registerSearchRoutes,
	} {
		register()
	}

	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())
}
