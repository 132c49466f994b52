package ui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gouq/domain/core"
	"gouq/internal/report"
	"gouq/ports"
)

// Server is the read-only HTTP surface over completed studies
type Server struct {
	router  *chi.Mux
	studies ports.StudyRepository
}

// NewServer creates the study HTTP server
func NewServer(studies ports.StudyRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		studies: studies,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Router exposes the handler for mounting and tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the given port (blocking)
func (s *Server) Start(port string) error {
	log.Printf("[UI] listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.router.Route("/studies", func(r chi.Router) {
		r.Get("/", s.handleListStudies)
		r.Get("/{studyID}", s.handleGetStudy)
		r.Get("/{studyID}/report", s.handleStudyReport)
	})
}

func (s *Server) handleListStudies(w http.ResponseWriter, r *http.Request) {
	listings, err := s.studies.ListStudies(r.Context(), 50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, listings)
}

func (s *Server) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	summary, err := s.studies.GetSummary(r.Context(), core.StudyID(chi.URLParam(r, "studyID")))
	if errors.Is(err, core.ErrStudyNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, summary)
}

func (s *Server) handleStudyReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.studies.GetSummary(r.Context(), core.StudyID(chi.URLParam(r, "studyID")))
	if errors.Is(err, core.ErrStudyNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	md := report.Markdown(summary)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(markdown.ToHTML([]byte(md), p, renderer))
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[UI] encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
