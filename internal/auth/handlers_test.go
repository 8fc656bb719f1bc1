package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testHandler() *Handler {
	return &Handler{
		Service:       NewService("letmein", []byte("0123456789abcdef0123456789abcdef"), time.Hour),
		SessionCookie: "proposal_session",
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"letmein"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec, "proposal_session")
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.NoError(t, h.Service.ParseSession(cookie.Value))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"nope"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Result().Cookies())
}

func TestLoginRejectsBadPayload(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(t, rec, "proposal_session")
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

func TestRequireSession(t *testing.T) {
	h := testHandler()
	mw := Middleware{Service: h.Service, SessionCookie: "proposal_session"}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := mw.RequireSession(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := h.Service.IssueSession()
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.AddCookie(&http.Cookie{Name: "proposal_session", Value: token})
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionBearerFallback(t *testing.T) {
	h := testHandler()
	mw := Middleware{Service: h.Service, SessionCookie: "proposal_session"}
	guarded := mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := h.Service.IssueSession()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
