package chi

import (
	"encoding/json"
	"io"
	"net/http"

	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
)

const maxPreferenceBody = 64 << 10

// GetPreferences handles GET /preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p := s.prefs.Get(r.Context(), profileOf(r))
	writeJSON(w, http.StatusOK, preferencesToResponse(p))
}

// SetPreference handles PUT /preferences/{key}. The body is the new JSON
// value: a page size number or a section list.
func (s *Server) SetPreference(w http.ResponseWriter, r *http.Request) {
	key, ok := s.preferenceKey(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPreferenceBody))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: expected a JSON value")
		return
	}

	p, err := s.prefs.Set(r.Context(), profileOf(r), key, json.RawMessage(body))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesToResponse(p))
}

// ResetPreference handles DELETE /preferences/{key}.
func (s *Server) ResetPreference(w http.ResponseWriter, r *http.Request) {
	key, ok := s.preferenceKey(w, r)
	if !ok {
		return
	}

	p, err := s.prefs.Reset(r.Context(), profileOf(r), key)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesToResponse(p))
}

func (s *Server) preferenceKey(w http.ResponseWriter, r *http.Request) (domprefs.Key, bool) {
	var raw string
	if err := bindPath(r, "key", &raw); err != nil {
		s.handleDomainError(w, r, err)
		return "", false
	}
	key, err := domprefs.ParseKey(raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return "", false
	}
	return key, true
}
