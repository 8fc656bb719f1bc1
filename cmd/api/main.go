package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/proposal-api/internal/auth"
	"github.com/noah-isme/proposal-api/internal/catalog"
	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/config"
	"github.com/noah-isme/proposal-api/internal/health"
	"github.com/noah-isme/proposal-api/internal/obs"
	"github.com/noah-isme/proposal-api/internal/promo"
	"github.com/noah-isme/proposal-api/internal/proposal"
	"github.com/noah-isme/proposal-api/internal/ratelimit"
	"github.com/noah-isme/proposal-api/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "proposal")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "proposal-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	store, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("load catalog")
	}
	groups, err := catalog.LoadDiscountGroups(cfg.DiscountGroupsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load discount groups")
	}
	promos, err := promo.NewRegistry(promo.DefaultRules())
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise promotion registry")
	}
	kits, err := promo.NewKitRegistry(promo.DefaultKits())
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise kit registry")
	}
	logger.Info().
		Int("products", store.Len()).
		Int("promotions", promos.Len()).
		Msg("catalog loaded")

	sessionSvc := auth.NewService(cfg.AppPassword, []byte(cfg.SessionSecret), cfg.SessionTTL)
	sessionCookie := envOrDefault("SESSION_COOKIE_NAME", "proposal_session")
	authHandler := &auth.Handler{
		Service:        sessionSvc,
		SessionCookie:  sessionCookie,
		CookieDomain:   cfg.CookieDomain,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: cfg.CookieSameSite,
	}
	authMiddleware := auth.Middleware{Service: sessionSvc, SessionCookie: sessionCookie}

	loginThrottle := ratelimit.Handler{
		Limiter: ratelimit.NewMemoryLimiter(),
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("login rate limiter")
		},
	}

	proposalSvc := &proposal.Service{
		Store:  store,
		Groups: groups,
		Promos: promos,
		Kits:   kits,
		Logger: logger,
	}
	proposalHandler := &proposal.Handler{
		Svc:      proposalSvc,
		Validate: validator.New(),
		Renderers: map[string]proposal.Renderer{
			"pdf":  render.PDF{},
			"docx": render.DOCX{},
		},
		DefaultFormat: cfg.DefaultFormat,
	}
	catalogHandler := catalog.Handler{Store: store, Groups: groups}
	promoHandler := promo.Handler{Promos: promos, Kits: kits}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{Checker: readinessChecker{store: store, promos: promos}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/auth", func(a chi.Router) {
		a.With(loginThrottle.Middleware).Post("/login", authHandler.Login)
		a.Post("/logout", authHandler.Logout)
	})

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(authMiddleware.RequireSession)

		v.Get("/catalog", catalogHandler.Catalog)
		v.Get("/discount-groups", catalogHandler.DiscountGroups)
		v.Get("/promotions", promoHandler.Promotions)
		v.Get("/promotions/{id}", promoHandler.Promotion)
		v.Get("/kits", promoHandler.KitList)
		v.Get("/kits/{bom}", promoHandler.Kit)

		v.Route("/proposals", func(p chi.Router) {
			p.Post("/custom", proposalHandler.CustomGenerate)
			p.Post("/custom/preview", proposalHandler.CustomPreview)
			p.Post("/promotion", proposalHandler.PromotionGenerate)
			p.Post("/promotion/preview", proposalHandler.PromotionPreview)
			p.Post("/kit", proposalHandler.KitGenerate)
			p.Post("/kit/preview", proposalHandler.KitPreview)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()
	health.SetReady(true)

	select {
	case <-ctx.Done():
		health.SetReady(false)
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	store  *catalog.Store
	promos *promo.Registry
}

func (c readinessChecker) CatalogSize() int {
	if c.store == nil {
		return 0
	}
	return c.store.Len()
}

func (c readinessChecker) PromotionCount() int {
	if c.promos == nil {
		return 0
	}
	return c.promos.Len()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
