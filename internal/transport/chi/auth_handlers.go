package chi

import (
	"net/http"

	"github.com/kailas-cloud/riskboard/internal/domain/user"
)

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		Email:     u.Email,
		Name:      u.Name,
		ProfileID: u.ProfileID,
	})
}

// Logout handles POST /auth/logout. API keys have nothing to revoke.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if token, _, ok := bearerToken(r); ok && !p.APIKey {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.handleDomainError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, UserResponse{
		Email:     p.Email,
		Name:      p.Name,
		ProfileID: p.ProfileID,
		APIKey:    p.APIKey,
	})
}

func sessionToResponse(sess user.Session) SessionResponse {
	return SessionResponse{
		Token:     sess.Token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt,
		User: UserResponse{
			Email:     sess.Email,
			Name:      sess.Name,
			ProfileID: sess.ProfileID,
		},
	}
}
