// Package api serves the venue store over HTTP: one unauthenticated,
// unpaginated read endpoint returning every row, plus a liveness probe.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/mfreeman/venuescout/internal/logger"
	"github.com/mfreeman/venuescout/internal/venue"
)

// VenueLister is the read-only store boundary.
type VenueLister interface {
	All() ([]*venue.Venue, error)
}

// Server is the read API.
type Server struct {
	store VenueLister
	log   *logger.Logger
}

// New creates a Server over the given store.
func New(store VenueLister, log *logger.Logger) *Server {
	return &Server{store: store, log: log}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/venues", s.handleVenues)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVenues returns every venue row as a JSON array. No filtering, no
// pagination.
func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := s.store.All()
	if err != nil {
		s.log.Error("listing venues failed", nil, err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if venues == nil {
		venues = []*venue.Venue{}
	}
	respondJSON(w, http.StatusOK, venues)
}

// cors allows the bundled frontend to call the API from another origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode errors past this point cannot change the status line; the
	// client sees a truncated body, which is the best available outcome.
	_ = json.NewEncoder(w).Encode(v)
}
