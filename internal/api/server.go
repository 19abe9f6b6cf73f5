package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/auditflow/sectioner/internal/config"
	"github.com/auditflow/sectioner/internal/pipeline"
	"github.com/auditflow/sectioner/internal/vision"
)

// Server is the HTTP API server for sectioner.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	visionStats  *vision.Stats
	visionModel  string
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, stats *vision.Stats, visionModel string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		visionStats:  stats,
		visionModel:  visionModel,
		log:          log,
		cfg:          cfg,
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
	r.Use(s.logRequests)

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Get("/api/stats/vision", s.handleVisionStats)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// resolveCollection maps the optional form/query value onto one of the two
// configured collections. Arbitrary collection names are rejected; the index
// only holds what this service is configured to feed.
func (s *Server) resolveCollection(value string) (string, bool) {
	switch value {
	case "", "evidence", s.cfg.EvidenceCollection:
		return s.cfg.EvidenceCollection, true
	case "solutions", s.cfg.SolutionsCollection:
		return s.cfg.SolutionsCollection, true
	}
	return "", false
}
