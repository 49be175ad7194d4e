package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/moduel/propdash/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Options configures the middleware stack.
type Options struct {
	CORSAllowOrigins  []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// PageRegistrar mounts additional routes, such as the dashboard pages.
type PageRegistrar interface {
	Register(r *mux.Router)
}

// Server represents the REST API server
type Server struct {
	server *http.Server
	router *mux.Router
}

// NewServer creates a new REST API server. pages may be nil.
func NewServer(addr string, handler *Handler, triggers *TriggerHandler, pages PageRegistrar, opts Options) *Server {
	router := NewRouter(handler, triggers, pages, opts)
	return &Server{
		router: router,
		server: &http.Server{
			Addr:              addr,
			Handler:           corsHandler(opts.CORSAllowOrigins).Handler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the route table with its middleware.
func NewRouter(handler *Handler, triggers *TriggerHandler, pages PageRegistrar, opts Options) *mux.Router {
	router := mux.NewRouter()

	router.Use(RequestIDMiddleware)
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	if opts.RateLimitEnabled {
		router.Use(RateLimitMiddleware(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	// Health and metrics
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/health/db", handler.HealthCheckDB).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Read API
	api.HandleFunc("/getPlayers", handler.GetPlayers).Methods(http.MethodGet)
	api.HandleFunc("/last5games", handler.GetLastGames).Methods(http.MethodGet)
	api.HandleFunc("/gameStats", handler.GetGameStats).Methods(http.MethodGet)
	api.HandleFunc("/analysis/status", handler.GetAnalysisStatus).Methods(http.MethodGet)
	api.HandleFunc("/confidence", handler.GetConfidence).Methods(http.MethodGet)

	// Triggers
	if triggers != nil {
		trigger := []string{http.MethodGet, http.MethodPost}
		api.HandleFunc("/scrape", triggers.RunChain(pipeline.ChainScrape, ScrapeCompletedMessage)).Methods(trigger...)
		api.HandleFunc("/process", triggers.RunChain(pipeline.ChainProcess, ProcessCompletedMessage)).Methods(trigger...)
		api.HandleFunc("/analysis", triggers.RunChain(pipeline.ChainAnalysis, AnalysisTriggeredMsg)).Methods(trigger...)
		api.HandleFunc("/poll-unr-league", triggers.PollLeague).Methods(trigger...)
		api.HandleFunc("/pipeline/run/{chain}", triggers.RunNamedChain).Methods(http.MethodPost)
		api.HandleFunc("/pipeline/status", triggers.Status).Methods(http.MethodGet)
	}

	if pages != nil {
		pages.Register(router)
	}
	return router
}

func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
}

// Handler returns the full HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
