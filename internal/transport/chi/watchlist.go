package chi

import (
	"net/http"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// ListWatchlist handles GET /watchlist.
func (s *Server) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.browse.Watchlist(r.Context(), profileOf(r), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page, identity[record.Company]))
}

// AddToWatchlist handles PUT /watchlist/{name}.
func (s *Server) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPath(r, "name", &name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	company, err := s.watchlist.Add(r.Context(), profileOf(r), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

// RemoveFromWatchlist handles DELETE /watchlist/{name}.
func (s *Server) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPath(r, "name", &name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if err := s.watchlist.Remove(r.Context(), profileOf(r), name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
