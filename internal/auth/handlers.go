package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/obs"
)

// Handler exposes the login and logout endpoints.
type Handler struct {
	Service        *Service
	SessionCookie  string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /auth/login. A correct shared password yields a session
// cookie; the token is also returned in the body for non-browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if err := h.Service.VerifyPassword(req.Password); err != nil {
		countLogin("denied")
		h.writeError(w, err)
		return
	}
	token, expiry, err := h.Service.IssueSession()
	if err != nil {
		countLogin("error")
		h.writeError(w, err)
		return
	}
	countLogin("ok")

	http.SetCookie(w, &http.Cookie{
		Name:     h.SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  expiry,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.sameSite(),
	})
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"session_token":      token,
			"session_expires_at": expiry,
		},
	})
}

// Logout handles POST /auth/logout. Sessions are stateless, so logout just
// clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.sameSite(),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sameSite() http.SameSite {
	if h.CookieSameSite == 0 {
		return http.SameSiteLaxMode
	}
	return h.CookieSameSite
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}

func countLogin(result string) {
	if obs.LoginAttemptsTotal != nil {
		obs.LoginAttemptsTotal.WithLabelValues(result).Inc()
	}
}
