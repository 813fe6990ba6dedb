// Package server assembles and runs the imgvault server: configuration,
// logging, database and migrations, cache and gateway backends, services,
// and the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charm "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ndenisov/imgvault/internal/logging"
	"github.com/ndenisov/imgvault/internal/server/api"
	"github.com/ndenisov/imgvault/internal/server/cache"
	"github.com/ndenisov/imgvault/internal/server/config"
	"github.com/ndenisov/imgvault/internal/server/gateway"
	"github.com/ndenisov/imgvault/internal/server/repositories/repomanager"
	"github.com/ndenisov/imgvault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userCache, imageCache, err := newCaches(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	host, err := newImageHost(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gateway init error: %w", err)
	}

	userService := services.NewUserService(db, m, userCache, imageCache, cfg, logger)
	imageService := services.NewImageService(db, m, host, imageCache, logger)
	handler := api.NewHandler(userService, imageService, cfg, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		router: handler.Router(cfg),
	}, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	if cfg.LogFormat == "pretty" {
		return logging.NewCharmLogger(charm.NewWithOptions(os.Stderr, charm.Options{
			ReportTimestamp: true,
		}))
	}
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func newCaches(ctx context.Context, cfg *config.Config) (cache.UserCache, cache.ImageListCache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisUserCache(client), cache.NewRedisImageListCache(client), nil
	case config.CacheBackendMemory:
		return cache.NewMemoryUserCache(), cache.NewMemoryImageListCache(), nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func newImageHost(ctx context.Context, cfg *config.Config) (gateway.ImageHost, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		return gateway.NewS3Host(ctx, gateway.S3Options{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
			Timeout:   cfg.GatewayTimeout,
		})
	case config.StorageBackendImgur:
		return gateway.NewImgurHost(cfg.ImgurUploadURL, cfg.ImgurDeleteURL,
			cfg.ImgurClientID, cfg.GatewayTimeout), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Run serves the HTTP API until the context is cancelled or a termination
// signal arrives, then drains in-flight requests before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Warn(ctx, "closing database", "error", closeErr)
	}

	return err
}
