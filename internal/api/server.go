package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/discoverysim/internal/interview"
	"github.com/MikeSquared-Agency/discoverysim/internal/processor"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// Deps are the collaborators behind the HTTP surface. Processor, Archive and
// UI may be nil.
type Deps struct {
	Sessions     *session.Manager
	Interview    *interview.Service
	Processor    *processor.Processor
	Archive      ArchiveReader
	APIToken     string
	CookieSecure bool
	// TestKeyAvailable tells the UI whether the shared Gemini key is configured.
	TestKeyAvailable bool
	UI               http.Handler
	Logger           *slog.Logger
}

type Server struct {
	router *chi.Mux
	port   int
	deps   Deps
	logger *slog.Logger
	http   *http.Server
}

func NewServer(port int, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		deps:   deps,
		logger: logger,
	}

	router.Get("/health", s.health)
	if deps.UI != nil {
		router.Handle("/", deps.UI)
		router.Handle("/static/*", deps.UI)
	}

	router.Route("/api/v1/session", func(r chi.Router) {
		r.Use(SessionMiddleware(deps.Sessions, deps.CookieSecure))
		r.Get("/", s.getSession)
		r.Put("/provider", s.setProvider)
		r.Post("/persona", s.generatePersona)
		r.Post("/start", s.startInterview)
		r.Post("/messages", s.sendMessage)
		r.Post("/end", s.endInterview)
		r.Get("/export", s.exportInterview)
		r.Post("/reset", s.resetSession)
	})

	if deps.Archive != nil {
		router.Route("/api/v1/archive", func(r chi.Router) {
			r.Use(BearerAuthMiddleware(deps.APIToken))
			r.Get("/", s.listArchive)
			r.Get("/{id}", s.getArchived)
		})
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.deps.Sessions.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
