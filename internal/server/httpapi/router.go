// Package httpapi exposes the share service over HTTP: share lifecycle,
// password management, photo presigning, and a health probe.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/server/services"
)

// Server holds the HTTP server dependencies.
type Server struct {
	shares *services.ShareService
	photos *services.PhotoService
	log    logging.Logger
	router chi.Router
}

// New creates the API server and wires its routes.
func New(shares *services.ShareService, photos *services.PhotoService, log logging.Logger) *Server {
	s := &Server{
		shares: shares,
		photos: photos,
		log:    log,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Share-Password", "X-Edit-Token"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/share", s.handleCreateShare)
		r.Route("/share/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetShare)
			r.Put("/", s.handleUpdateShare)
			r.Get("/meta", s.handleGetShareMeta)
			r.Put("/password", s.handleSetPassword)
			r.Delete("/password", s.handleClearPassword)
			r.Get("/password", s.handlePasswordState)
		})

		r.Post("/photos/presign", s.handlePresignPhotoPut)
		// Storage keys contain slashes, so the route is a catch-all.
		r.Get("/photos/*", s.handlePresignPhotoGet)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
