// Package server initializes and runs the vidhub API server.
// It opens the configured storage backend, runs migrations, wires services
// and serves HTTP until the process receives a termination signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/dmitrijs2005/vidhub/internal/server/media"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidhub/internal/server/rest"
	"github.com/dmitrijs2005/vidhub/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	redis    *redis.Client
	accounts *services.AccountService
	channels *services.ChannelService
	tokens   *services.TokenService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("migration error: %w", err)
	}

	uploader, err := media.New(ctx, c)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("media init error: %w", err)
	}

	ts := services.NewTokenService(rm.Users(), rm.RefreshTokens(), c, logger)
	as := services.NewAccountService(rm.Users(), ts, uploader, logger)
	cs := services.NewChannelService(rm.Users(), rm.Videos(), rm.Subscriptions())

	app := &App{config: c, logger: logger, repos: rm, accounts: as, channels: cs, tokens: ts}

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) rateLimiter() *rest.RateLimiter {
	if app.redis == nil {
		return nil
	}
	return rest.NewRateLimiter(app.redis, "vidhub:auth", app.config.LoginRateLimit, app.config.LoginRateWindow, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewServer(app.config, app.logger, app.accounts, app.channels, app.tokens, app.repos.Users(), app.rateLimiter())

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver, "media", app.config.MediaDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.shutdown()
}

func (app *App) shutdown() {
	ctx := context.Background()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}

	if err := app.repos.Close(ctx); err != nil {
		app.logger.Error(ctx, "repository close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")

	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
