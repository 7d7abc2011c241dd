// Package rest exposes the account and channel services over HTTP using
// fiber. Every failure is rendered by a single error handler in the
// {statusCode, data, message, success, errors} shape.
package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/filex"
	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/auth"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/dmitrijs2005/vidhub/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverPath string) (*models.User, error)
}

type ChannelService interface {
	ChannelProfile(ctx context.Context, viewerID, username string) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}

// TokenVerifier checks access tokens without touching storage.
type TokenVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// PrincipalLoader resolves the user behind a verified token. The result
// must not carry the password hash or refresh token.
type PrincipalLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	app        *fiber.App
	accounts   AccountService
	channels   ChannelService
	verifier   TokenVerifier
	principals PrincipalLoader
	limiter    *RateLimiter
	logger     logging.Logger

	uploadDir      string
	cookieSecure   bool
	cookieSameSite string
}

// NewServer builds the fiber app and registers routes. limiter may be nil,
// which disables rate limiting of the login and register endpoints.
func NewServer(cfg *config.Config, l logging.Logger, accounts AccountService, channels ChannelService,
	verifier TokenVerifier, principals PrincipalLoader, limiter *RateLimiter) (*Server, error) {

	uploadDir, err := filex.EnsureDir(cfg.UploadTempDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		address:        cfg.HTTPAddr,
		accounts:       accounts,
		channels:       channels,
		verifier:       verifier,
		principals:     principals,
		limiter:        limiter,
		logger:         l.With("module", "http_server"),
		uploadDir:      uploadDir,
		cookieSecure:   cfg.CookieSecure,
		cookieSameSite: cfg.CookieSameSite,
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             cfg.UploadBodyLimit,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(cors.New(corsConfig(cfg.CORSOrigin)))
	s.app.Use(s.requestLogger)
	s.app.Use(jsonBodyLimit(cfg.JSONBodyLimit))

	s.routes()

	if cfg.PublicDir != "" {
		s.app.Static("/", cfg.PublicDir)
	}

	return s, nil
}

func corsConfig(origin string) cors.Config {
	c := cors.Config{AllowOrigins: origin}
	// fiber refuses credentials together with a wildcard origin.
	if origin != "" && origin != "*" {
		c.AllowCredentials = true
	}
	return c
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.healthz)

	users := s.app.Group("/api/v1/users")

	users.Post("/register", s.rateLimited(), s.register)
	users.Post("/login", s.rateLimited(), s.login)
	users.Post("/refresh-token", s.refreshToken)

	users.Post("/logout", s.authGuard, s.logout)
	users.Post("/change-password", s.authGuard, s.changePassword)
	users.Get("/current-user", s.authGuard, s.currentUser)
	users.Patch("/update-account", s.authGuard, s.updateAccount)
	users.Patch("/avatar", s.authGuard, s.updateAvatar)
	users.Patch("/cover-image", s.authGuard, s.updateCoverImage)
	users.Get("/c/:username", s.authGuard, s.channelProfile)
	users.Get("/channel/:username", s.authGuard, s.channelProfile)
	users.Get("/history", s.authGuard, s.watchHistory)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}
	return nil
}
