// Package api wires the HTTP surface: routing, middleware, and handler
// construction around the domain services.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/cardperks-backend/internal/api/handlers"
	"github.com/eshaffer321/cardperks-backend/internal/api/middleware"
	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/domain/optimizer"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	TracingEnabled bool
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	optimizer  *optimizer.Optimizer
	benefits   *service.BenefitService
	importer   *service.ImportService
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, o *optimizer.Optimizer,
	benefits *service.BenefitService, importer *service.ImportService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		repo:      repo,
		optimizer: o,
		benefits:  benefits,
		importer:  importer,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))

	if s.config.TracingEnabled {
		s.router.Use(middleware.Tracing("cardperks-backend"))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		// Optimizer
		optimizerHandler := handlers.NewOptimizerHandler(s.repo, s.optimizer)
		r.Get("/optimizer", optimizerHandler.Rank)

		// Cards
		cardsHandler := handlers.NewCardsHandler(s.repo)
		r.Get("/cards", cardsHandler.List)

		// Benefits
		benefitsHandler := handlers.NewBenefitsHandler(s.repo, s.benefits)
		r.Get("/benefits", benefitsHandler.List)
		r.Get("/benefits/{id}/usage", benefitsHandler.Usage)

		// Offers and enrollments
		offersHandler := handlers.NewOffersHandler(s.repo)
		r.Get("/offers", offersHandler.List)
		r.Get("/offers/enrollments", offersHandler.Enrollments)
		r.Post("/offers/{id}/enroll", offersHandler.Enroll)

		// Statement imports
		if s.importer != nil {
			transactionsHandler := handlers.NewTransactionsHandler(s.repo, s.importer)
			r.Post("/transactions/import", transactionsHandler.Import)
		}

		// Import runs
		runsHandler := handlers.NewRunsHandler(s.repo)
		r.Get("/runs", runsHandler.List)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
