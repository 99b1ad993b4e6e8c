package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/arwisata/oratorio/internal/filestore"
	"github.com/arwisata/oratorio/internal/service"
)

type Server struct {
	destinations *service.DestinationService
	accounts     *service.AccountService
	files        filestore.Store
	assetsDir    string
	router       chi.Router
	logger       *slog.Logger
}

func NewServer(destinations *service.DestinationService, accounts *service.AccountService, files filestore.Store, assetsDir string, logger *slog.Logger) *Server {
	s := &Server{
		destinations: destinations,
		accounts:     accounts,
		files:        files,
		assetsDir:    assetsDir,
		router:       chi.NewRouter(),
		logger:       logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(requestLogger(s.logger))
	// The AR frontend is served from a different origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/wisata", s.handleListDestinations)
		r.Post("/wisata", s.handleCreateDestination)
		r.Get("/wisata/{id}", s.handleGetDestination)
		r.Put("/wisata/{id}", s.handleUpdateDestination)
		r.Delete("/wisata/{id}", s.handleDeleteDestination)

		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	s.router.Get("/assets/*", s.handleAssets)
	s.router.Get("/static/uploads/*", s.handleUploadedArtifact)
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
