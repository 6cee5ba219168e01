package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/alx-travel/alx-travel-app/internal/api"
	"github.com/alx-travel/alx-travel-app/internal/config"
	"github.com/alx-travel/alx-travel-app/internal/database"
	"github.com/alx-travel/alx-travel-app/internal/metrics"
)

const (
	staticDirName        = "static"
	readinessPingTimeout = 2 * time.Second
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	db      *bun.DB
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New opens the configured database and wires the HTTP surface from the
// resolved settings.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	settings := cfg.Settings

	db, err := database.Open(ctx, settings.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := metrics.New()
	handler := api.NewHandler(settings, api.WithHandlerLogger(logger), api.WithReadiness(api.PingerFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db, readinessPingTimeout)
	})))

	opts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithSettings(settings),
		api.WithMetrics(m),
	}
	if staticPath, err := resolveProjectPath(staticDirName); err == nil {
		opts = append(opts, api.WithStaticFiles(settings.Framework.StaticURL, http.Dir(staticPath)))
	} else {
		logger.Debug("static files disabled", zap.Error(err))
	}
	router := api.NewRouter(handler, logger, opts...)

	logger.Info("settings resolved",
		zap.Stringer("stage", settings.Stage),
		zap.Bool("debug", settings.Debug),
		zap.Strings("allowed_hosts", settings.AllowedHosts),
		zap.Strings("cors_origins", settings.CORSAllowedOrigins),
		zap.Bool("hardening", settings.Hardening.Enabled()),
	)

	return &App{
		db:      db,
		metrics: m,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Close releases the database connection pool.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
