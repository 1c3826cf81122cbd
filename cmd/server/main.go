// Package main initializes and starts the cafe menu server, setting up
// configuration, logging, the database, repositories, services, handlers,
// and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/CafeMenu/internal/config"
	"github.com/atinyakov/CafeMenu/internal/db"
	"github.com/atinyakov/CafeMenu/internal/logger"
	"github.com/atinyakov/CafeMenu/internal/middleware"
	"github.com/atinyakov/CafeMenu/internal/repository"
	"github.com/atinyakov/CafeMenu/internal/server/handler/http"
	"github.com/atinyakov/CafeMenu/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	for _, name := range options.InsecureDefaults() {
		zapLogger.Warn("using built-in default, set it before deploying", zap.String("setting", name))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the database, apply migrations and seed an empty menu.
	conn, dialect, err := db.Open(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, dialect); err != nil {
		zapLogger.Fatal("cannot migrate database", zap.Error(err))
	}
	seeded, err := db.Seed(ctx, conn)
	if err != nil {
		zapLogger.Fatal("cannot seed database", zap.Error(err))
	}
	if seeded {
		zapLogger.Info("seeded default menu", zap.Int("categories", len(db.DefaultMenu)))
	}

	// Metrics and background database health checks.
	metrics := middleware.NewMetrics()
	db.StartHealthMonitor(ctx, conn, options.HealthInterval, metrics.DBUp, zapLogger)

	// Initialize repositories.
	menuRepo := repository.NewMenuRepository(conn)
	settingsRepo := repository.NewSettingsRepository(conn)

	// Initialize business-logic services.
	menuService := service.NewMenuService(menuRepo, options.Currency)
	settingsService := service.NewSettingsService(settingsRepo)
	authService := service.NewAuthService(options.AdminUsername, options.AdminPassword)

	renderer, err := http.NewRenderer()
	if err != nil {
		zapLogger.Fatal("cannot parse templates", zap.Error(err))
	}

	sessions := middleware.NewSessionManager(options.SessionSecret, options.TLSEnabled())
	authHandler := &http.AuthHandler{
		AuthService: authService,
		Sessions:    sessions,
		Renderer:    renderer,
		Log:         zapLogger,
	}
	limiter := middleware.NewLoginRateLimiter(options.LoginRatePerMinute, zapLogger)
	limiter.Rejected = authHandler.TooManyAttempts
	limiter.StartCleanup(ctx, 10*time.Minute)

	staticDir := options.StaticDir
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			zapLogger.Info("static directory not found, /static/ disabled", zap.String("dir", staticDir))
			staticDir = ""
		}
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Public: &http.PublicHandler{
			MenuService:     menuService,
			SettingsService: settingsService,
			Renderer:        renderer,
			Log:             zapLogger,
		},
		Auth: authHandler,
		Admin: &http.AdminHandler{
			MenuService:     menuService,
			SettingsService: settingsService,
			Renderer:        renderer,
			Log:             zapLogger,
		},
		Health:       &http.HealthHandler{DB: conn, Log: zapLogger},
		Sessions:     sessions,
		LoginLimiter: limiter,
		Metrics:      metrics,
		StaticDir:    staticDir,
		TrustProxy:   options.TrustProxy,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSEnabled() {
			server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
			errCh <- server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
