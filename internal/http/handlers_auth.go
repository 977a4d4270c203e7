package http

import (
	"errors"
	"net/http"

	"github.com/manongfatu/dreamteamfinance/internal/auth"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.Create(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.ErrorContext(r.Context(), "register failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.log.InfoContext(r.Context(), "user registered", applog.FieldUserID, u.ID)
	s.signIn(w, r, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "login failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.signIn(w, r, u)
}

// signIn issues the session cookie and attaches the user's identity to
// the persistence bridge, hydrating from the remote snapshot if one
// exists. A failed hydration still signs the session in; the bridge
// keeps remote sync disabled until the next sign-in succeeds.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u auth.User) {
	token, err := s.sessions.Issue(u.ID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "session issue failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if s.bridge != nil {
		if err := s.bridge.SetIdentity(r.Context(), u.ID, u.Email); err != nil {
			s.log.WarnContext(r.Context(), "remote hydration failed, sync disabled",
				applog.FieldError, err, applog.FieldUserID, u.ID)
		}
	}

	http.SetCookie(w, s.sessions.Cookie(token))
	respondJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.bridge != nil {
		// Push any debounced snapshot before detaching, otherwise an
		// edit made just before sign-out never reaches the remote store.
		if err := s.bridge.Flush(r.Context()); err != nil {
			s.log.WarnContext(r.Context(), "sign-out flush failed", applog.FieldError, err)
		}
		if err := s.bridge.SetIdentity(r.Context(), "", ""); err != nil {
			s.log.WarnContext(r.Context(), "sign-out detach failed", applog.FieldError, err)
		}
	}
	http.SetCookie(w, s.sessions.ClearCookie())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.ByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}
