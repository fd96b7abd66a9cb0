package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/jsondir/internal/catalog"
	"github.com/dgallion1/jsondir/internal/config"
	"github.com/dgallion1/jsondir/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Server is the HTTP API server for jsondir.
type Server struct {
	router  chi.Router
	catalog *catalog.Catalog
	latency *stats.Latency
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cat *catalog.Catalog, latency *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		catalog: cat,
		latency: latency,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.latency))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	r.Get("/health", s.handleHealth)

	r.Get("/api/documents", s.handleListDocuments)
	r.Get("/api/documents/search", s.handleSearchDocuments)
	r.Get("/api/stats", s.handleStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
