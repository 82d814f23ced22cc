// Package api provides the HTTP API server and handlers for Foodgram.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/ratelimit"
	"github.com/foodgram/foodgram-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	storage     *StorageServices
	metrics     *metrics.Metrics
	limiter     *ratelimit.KeyedRateLimiter
	pageSize    int
	maxPageSize int
	corsOrigins []string
	router      *chi.Mux
	api         huma.API
	log         *logger.Logger
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// Metrics and the rate limiter are optional.
func NewServer(
	st store.Store,
	services *Services,
	storage *StorageServices,
	cfg *config.Config,
	m *metrics.Metrics,
	limiter *ratelimit.KeyedRateLimiter,
	log *logger.Logger,
) *Server {
	s := &Server{
		store:       st,
		services:    services,
		storage:     storage,
		metrics:     m,
		limiter:     limiter,
		pageSize:    cfg.API.PageSize,
		maxPageSize: cfg.API.MaxPageSize,
		corsOrigins: cfg.Server.CORSOrigins,
		router:      chi.NewRouter(),
		log:         log,
		logger:      log.Component("api"),
	}

	s.setupMiddleware()
	s.api = newHumaAPI(s.router)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, e.g. for dumping the OpenAPI document.
func (s *Server) API() huma.API {
	return s.api
}

// newHumaAPI mounts huma on router with the envelope transformer, the error
// mapping and the bearer security scheme.
func newHumaAPI(router chi.Router) huma.API {
	humaConfig := huma.DefaultConfig("Foodgram API", Version)
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()
	return api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}
	s.router.Use(authMiddleware(s.services.Auth))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	if s.storage != nil && s.storage.RecipeImages != nil {
		s.router.Get("/media/recipes/{file}", s.handleGetRecipeImage)
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSubscriptionRoutes()
	s.registerTagRoutes()
	s.registerIngredientRoutes()
	s.registerSearchRoutes()
	s.registerShoppingCartRoutes()
	s.registerRecipeRoutes()
	s.registerFavoriteRoutes()
}
