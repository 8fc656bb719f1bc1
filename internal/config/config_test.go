package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_PASSWORD":   "letmein",
		"SESSION_SECRET": "0123456789abcdef0123456789abcdef",
		"APP_ENV":        "",
		"PORT":           "",
		"CATALOG_PATH":   "",
		"SESSION_TTL":    "",
		"DEFAULT_FORMAT": "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "data/products.json", cfg.CatalogPath)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, "pdf", cfg.DefaultFormat)
	require.Equal(t, 10, cfg.LoginRateMax)
	require.Equal(t, time.Minute, cfg.LoginRateWindow)
	require.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
}

func TestLoadRequiresPassword(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"APP_PASSWORD":   "",
		"SESSION_SECRET": "0123456789abcdef0123456789abcdef",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "APP_PASSWORD")
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"APP_PASSWORD":   "letmein",
		"SESSION_SECRET": "",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_PASSWORD":         "letmein",
		"SESSION_SECRET":       "0123456789abcdef0123456789abcdef",
		"PORT":                 "9090",
		"CATALOG_PATH":         "/srv/data/catalog.json",
		"DISCOUNT_GROUPS_PATH": "/srv/data/groups.json",
		"SESSION_TTL":          "2h",
		"DEFAULT_FORMAT":       "DOCX",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
		"COOKIE_SAMESITE":      "strict",
		"LOGIN_RATE_MAX":       "3",
		"LOGIN_RATE_WINDOW":    "30s",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "/srv/data/catalog.json", cfg.CatalogPath)
	require.Equal(t, "/srv/data/groups.json", cfg.DiscountGroupsPath)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, "docx", cfg.DefaultFormat)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
	require.Equal(t, 3, cfg.LoginRateMax)
	require.Equal(t, 30*time.Second, cfg.LoginRateWindow)
}

func TestParseDurationFallback(t *testing.T) {
	require.Equal(t, 12*time.Hour, parseDuration("garbage", "12h"))
	require.Equal(t, 5*time.Minute, parseDuration("5m", "12h"))
}

func TestParseIntFallback(t *testing.T) {
	require.Equal(t, 10, parseInt("", 10))
	require.Equal(t, 10, parseInt("zero", 10))
	require.Equal(t, 10, parseInt("-3", 10))
	require.Equal(t, 7, parseInt("7", 10))
}
