package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/flagdoc/internal/pipeline"
)

// Renderer produces a fresh in-memory build of the documentation site.
type Renderer interface {
	Render(ctx context.Context) (*pipeline.Build, error)
}

// Server is the HTTP preview server for a generated site.
type Server struct {
	router   chi.Router
	renderer Renderer
	log      *slog.Logger

	mu    sync.RWMutex
	build *pipeline.Build // last successful build
	last  *pipeline.Build // last attempted build
}

// NewServer creates and configures the HTTP server. Call Rebuild before
// serving so there is a site to show.
func NewServer(renderer Renderer, log *slog.Logger) *Server {
	s := &Server{
		renderer: renderer,
		log:      log,
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

	r.Get("/health", s.handleHealth)

	r.Get("/api/build", s.handleBuildStatus)
	r.Post("/api/rebuild", s.handleRebuild)
	r.Get("/api/entities", s.handleListEntities)

	r.Get("/", s.handlePage)
	r.Get("/*", s.handlePage)

	s.router = r
}

// Rebuild renders the site again. On failure the previous site stays
// published.
func (s *Server) Rebuild(ctx context.Context) (*pipeline.Build, error) {
	b, err := s.renderer.Render(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if b != nil {
		s.last = b
	}
	if err != nil {
		return b, err
	}
	s.build = b
	s.log.Info("site rebuilt", "build_id", b.ID, "pages", len(b.Result().Site.Pages), "digest", b.Digest)
	return b, nil
}

func (s *Server) current() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.build == nil {
		return nil
	}
	return s.build.Result()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
