package auth

import (
	"net/http"
	"strings"

	"github.com/noah-isme/proposal-api/internal/common"
)

// Middleware guards routes behind the session gate.
type Middleware struct {
	Service       *Service
	SessionCookie string
}

// RequireSession rejects requests without a valid session token. The token is
// read from the session cookie, with a bearer header fallback for scripted
// clients.
func (m Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
			return
		}
		token := m.extractToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session", nil)
			return
		}
		if err := m.Service.ParseSession(token); err != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) extractToken(r *http.Request) string {
	if m.SessionCookie != "" {
		if cookie, err := r.Cookie(m.SessionCookie); err == nil {
			if value := strings.TrimSpace(cookie.Value); value != "" {
				return value
			}
		}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
