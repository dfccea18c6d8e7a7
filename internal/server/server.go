// Package server exposes the dashboard views over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"saludcl/internal/charts"
	"saludcl/internal/config"
	"saludcl/internal/logger"
	"saludcl/internal/pipeline"
)

// Server routes API requests to the session's analysis table.
type Server struct {
	cfg      *config.Config
	session  *pipeline.Session
	renderer *charts.Renderer
	logger   *logger.Logger
	handler  http.Handler
}

// New builds the router and middleware chain.
func New(cfg *config.Config, session *pipeline.Session, renderer *charts.Renderer, log *logger.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		session:  session,
		renderer: renderer,
		logger:   log.With("component", "server"),
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))

	api := r.PathPrefix("/api/v1").Subrouter()
	s.registerRoutes(api)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "not found")
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", RequestIDHeader},
		ExposedHeaders: []string{"Content-Length", "Content-Type", RequestIDHeader},
		MaxAge:         86400,
	})

	s.handler = corsHandler.Handler(r)

	return s
}

func (s *Server) registerRoutes(api *mux.Router) {
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.summary).Methods(http.MethodGet)

	api.HandleFunc("/filters/options", s.filterOptions).Methods(http.MethodGet)
	api.HandleFunc("/filters/clear", s.clearFilters).Methods(http.MethodPost)

	api.HandleFunc("/views/map", s.mapView).Methods(http.MethodGet)
	api.HandleFunc("/views/regional", s.regionalView).Methods(http.MethodGet)
	api.HandleFunc("/views/historical", s.historicalView).Methods(http.MethodGet)
	api.HandleFunc("/views/care-level", s.careLevelView).Methods(http.MethodGet)
	api.HandleFunc("/views/emergency", s.emergencyView).Methods(http.MethodGet)
	api.HandleFunc("/views/establishment-types", s.typesView).Methods(http.MethodGet)

	api.HandleFunc("/charts/{chart:[a-z-]+}.{format:svg|png}", s.chart).Methods(http.MethodGet)
	api.HandleFunc("/report.md", s.report).Methods(http.MethodGet)

	api.HandleFunc("/cache/clear", s.clearCache).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer wraps the server in an *http.Server using the configured listener settings.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		WriteTimeout:      s.cfg.Server.WriteTimeout(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout(),
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
