package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mhollis/docname/internal/config"
	"github.com/mhollis/docname/internal/crm"
	"github.com/mhollis/docname/internal/ocr"
	"github.com/mhollis/docname/internal/pipeline"
)

// Server is the HTTP API server for docname.
type Server struct {
	router   chi.Router
	pipeline *pipeline.Pipeline
	crm      *crm.Client
	ocrStats *ocr.Stats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(pipe *pipeline.Pipeline, crmClient *crm.Client, ocrStats *ocr.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		pipeline: pipe,
		crm:      crmClient,
		ocrStats: ocrStats,
		log:      log,
		cfg:      cfg,
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
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/companies/{companyID}/name", s.handleCompanyName)
		r.Get("/api/stats/ocr", s.handleOCRStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
