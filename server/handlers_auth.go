package server

import (
	"net/http"

	"github.com/jrsteele09/kitshop-gateway/auth"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// RegisterHandler creates a local account from a JSON body
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
			return
		}

		user, err := s.auth.Register(r.Context(), req)
		switch {
		case errors.Is(err, errors.ErrInvalidRequest):
			writeJSONError(w, "invalid_request", err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, errors.ErrAlreadyExists):
			writeJSONError(w, "already_exists", "login is already registered", http.StatusConflict)
			return
		case err != nil:
			log.Err(err).Msg("register failed")
			writeJSONError(w, "internal_error", "registration failed", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Login: user.Login})
	}
}

// LoginQueryHandler accepts credentials as username and password query parameters
func (s *Server) LoginQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		s.login(w, r, query.Get("username"), query.Get("password"))
	}
}

// LoginHandler accepts credentials as a JSON body
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
			return
		}
		s.login(w, r, req.Username, req.Password)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, username, password string) {
	result, err := s.auth.Login(r.Context(), username, password)
	if errors.Is(err, errors.ErrInvalidCredentials) {
		writeUnauthorized(w)
		return
	}
	if err != nil {
		log.Err(err).Msg("login failed")
		writeJSONError(w, "internal_error", "login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, result)
}

// MeHandler returns the account behind the bearer token. A token whose user no longer
// exists is rejected like any other bad token.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.CurrentUser(r.Context(), bearerToken(r))
		if errors.Is(err, errors.ErrInvalidToken) {
			writeUnauthorized(w)
			return
		}
		if err != nil {
			log.Err(err).Msg("current user lookup failed")
			writeJSONError(w, "internal_error", "user lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
