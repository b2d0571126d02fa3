package server

import (
	"net/http"
	"strings"
)

// RequireAuth is middleware that validates a Bearer session token. A missing header, a
// malformed header and a bad, forged or expired token all get the same 401 response.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, ok := s.auth.Authenticate(bearerToken(r)); !ok {
				writeUnauthorized(w)
				return
			}
			next(w, r)
		}
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="kitshop-gateway"`)
	writeJSONError(w, "unauthorized", "invalid credentials or token", http.StatusUnauthorized)
}
