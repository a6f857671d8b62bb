package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aegis-dashboard/config"
	"aegis-dashboard/internal/adapter/gateway"
	adapterhandler "aegis-dashboard/internal/adapter/handler"
	"aegis-dashboard/internal/domain"
	infracache "aegis-dashboard/internal/infrastructure/cache"
	"aegis-dashboard/internal/infrastructure/postgres"
	"aegis-dashboard/internal/infrastructure/sanitize"
	infratoken "aegis-dashboard/internal/infrastructure/token"
	"aegis-dashboard/internal/usecase"
	appmiddleware "aegis-dashboard/middleware"
	"aegis-dashboard/utils/logger"
	"aegis-dashboard/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Docker healthcheck in the distroless image
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	slog.InfoContext(ctx, "configuration loaded",
		"kratos_url", cfg.KratosURL,
		"port", cfg.Port,
		"cache_ttl", cfg.CacheTTL,
		"session_gap_minutes", cfg.SessionGapMinutes,
		"display_timezone", loc.String(),
		"admin_enabled", cfg.AdminEnabled())

	// Infrastructure
	db, err := postgres.NewConnection(ctx, cfg.DatabaseURL, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to record store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessionCache, closeCache := newSessionCache(ctx, cfg)
	defer closeCache()

	kratosGateway := gateway.NewKratosGateway(cfg.KratosURL, 3*time.Second)
	jwtService, err := infratoken.NewJWTService(infratoken.JWTConfig{
		Secret:   cfg.AccessTokenSecret,
		Issuer:   cfg.AccessTokenIssuer,
		Audience: cfg.AccessTokenAudience,
		TTL:      cfg.AccessTokenTTL,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize access tokens", "error", err)
		os.Exit(1)
	}

	therapists := postgres.NewTherapistRepository(db.Pool())
	patients := postgres.NewPatientRepository(db.Pool())
	summaries := postgres.NewSummaryRepository(db.Pool())

	// Usecases
	l := slog.Default()
	validateUC := usecase.NewValidateSession(kratosGateway, sessionCache, l)
	authorizeUC := usecase.NewAuthorizeTherapist(therapists, l)
	listSummariesUC := usecase.NewListSummaries(patients, summaries, sanitize.NewSanitizer(), l)

	// Handlers
	authHandler := adapterhandler.NewAuthHandler(
		usecase.NewSignIn(kratosGateway, l),
		usecase.NewSignUp(kratosGateway, l),
		usecase.NewSignOut(kratosGateway, sessionCache, l),
	)
	sessionHandler := adapterhandler.NewSessionHandler(usecase.NewGetSession(validateUC, authorizeUC, jwtService, l))
	therapistHandler := adapterhandler.NewTherapistHandler(
		usecase.NewGetTherapistProfile(therapists, l),
		usecase.NewListPatients(patients, l),
	)
	summaryHandler := adapterhandler.NewSummaryHandler(
		listSummariesUC,
		usecase.NewGroupSummaries(listSummariesUC),
		cfg.SessionGapMinutes,
		loc,
	)
	adminHandler := adapterhandler.NewAdminHandler(usecase.NewPurgeSummaries(summaries, l))
	healthHandler := adapterhandler.NewHealthHandler(map[string]adapterhandler.HealthCheckFunc{
		"postgres": func(ctx context.Context) error { return postgres.HealthCheck(ctx, db.Pool()) },
		"kratos":   kratosGateway.HealthCheck,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = adapterhandler.NewRequestValidator()

	e.Use(appmiddleware.SecurityHeaders())
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}
	e.Use(appmiddleware.RequestMetrics())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	authRL := appmiddleware.NewRateLimiter(ctx, appmiddleware.PerMinute(cfg.RateLimitPerMinute), 3)
	sessionRL := appmiddleware.NewRateLimiter(ctx, appmiddleware.PerMinute(120), 20)
	adminRL := appmiddleware.NewRateLimiter(ctx, appmiddleware.PerMinute(5), 1)

	e.GET("/health", healthHandler.Handle)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/sign-in", authHandler.SignIn, authRL.Middleware())
	auth.POST("/sign-up", authHandler.SignUp, authRL.Middleware())
	auth.POST("/sign-out", authHandler.SignOut, sessionRL.Middleware())
	auth.GET("/session", sessionHandler.Handle, sessionRL.Middleware())

	protected := v1.Group("", appmiddleware.AccessToken(jwtService, domain.RoleTherapist))
	protected.GET("/therapist", therapistHandler.Profile)
	protected.GET("/patients", therapistHandler.Patients)
	protected.GET("/patients/:id/summaries", summaryHandler.List)
	protected.GET("/patients/:id/sessions", summaryHandler.Sessions)

	if cfg.AdminEnabled() {
		admin := v1.Group("/admin", adminRL.Middleware(), appmiddleware.AdminAuth(cfg.AdminSharedSecret))
		admin.DELETE("/summaries", adminHandler.PurgeSummaries)
	}

	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting aegis-dashboard server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// newSessionCache prefers Redis when configured so replicas share
// validation results, and falls back to the in-process LRU.
func newSessionCache(ctx context.Context, cfg *config.Config) (domain.SessionCache, func()) {
	if cfg.RedisURL == "" {
		slog.InfoContext(ctx, "session cache initialized", "backend", "lru", "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
		return infracache.NewSessionCache(cfg.CacheSize, cfg.CacheTTL), func() {}
	}

	rc, err := infracache.NewRedisSessionCache(cfg.RedisURL, cfg.CacheTTL, slog.Default())
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rc.Ping(pingCtx)
		cancel()
		if err == nil {
			slog.InfoContext(ctx, "session cache initialized", "backend", "redis", "ttl", cfg.CacheTTL)
			return rc, func() { _ = rc.Close() }
		}
		_ = rc.Close()
	}
	slog.WarnContext(ctx, "redis unavailable, falling back to in-process cache", "error", err)
	return infracache.NewSessionCache(cfg.CacheSize, cfg.CacheTTL), func() {}
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8890"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
