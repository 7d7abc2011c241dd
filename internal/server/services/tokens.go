package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/auth"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService mints, verifies and rotates session tokens. The current
// refresh token of each user is kept in refreshtokens.Repository.
type TokenService struct {
	users         users.Repository
	refreshTokens refreshtokens.Repository
	logger        logging.Logger

	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(u users.Repository, rt refreshtokens.Repository, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{
		users:         u,
		refreshTokens: rt,
		logger:        logger.With("module", "tokens"),
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		now:           time.Now,
	}
}

var errTokenGeneration = apierr.Internal("Something went wrong while generating refresh and access token")

func (s *TokenService) mint(user *models.User) (*TokenPair, *models.RefreshToken, error) {
	access, err := auth.GenerateAccessToken(auth.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	}, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, nil, errTokenGeneration.WithCause(err)
	}

	refresh, expires, err := auth.GenerateRefreshToken(user.ID, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, nil, errTokenGeneration.WithCause(err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh},
		&models.RefreshToken{Token: refresh, ExpiresAt: expires}, nil
}

// IssueTokenPair mints a pair for user and stores the refresh token,
// replacing whatever was stored before.
func (s *TokenService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, record, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokens.Set(ctx, user.ID, record); err != nil {
		return nil, errTokenGeneration.WithCause(err)
	}
	return pair, nil
}

// VerifyAccess checks signature and expiry of an access token. Storage is
// not consulted.
func (s *TokenService) VerifyAccess(token string) (*auth.AccessClaims, error) {
	if token == "" {
		return nil, apierr.Unauthorized("Unauthorized request")
	}
	claims, err := auth.ParseAccessToken(token, s.accessSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, apierr.Unauthorized("Access token expired").WithCause(err)
		}
		return nil, apierr.Unauthorized("Invalid Access Token").WithCause(err)
	}
	return claims, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token must
// equal the stored one; the swap is conditional on it, so a token can be
// rotated at most once.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apierr.Unauthorized("Unauthorized request")
	}

	claims, err := auth.ParseRefreshToken(presented, s.refreshSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, apierr.Unauthorized("Refresh token expired").WithCause(err)
		}
		return nil, apierr.Unauthorized("Invalid refresh token").WithCause(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apierr.Unauthorized("Invalid refresh token").WithCause(err)
		}
		return nil, internalErr(err)
	}

	stored, err := s.refreshTokens.Get(ctx, user.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	if stored == nil || stored.Token != presented || !stored.ExpiresAt.After(s.now()) {
		return nil, apierr.Unauthorized("Refresh token is expired or used").WithCause(common.ErrRefreshTokenMismatch)
	}

	pair, record, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokens.Replace(ctx, user.ID, presented, record); err != nil {
		if errors.Is(err, common.ErrRefreshTokenMismatch) {
			s.logger.Warn(ctx, "concurrent refresh token reuse", "user_id", user.ID)
			return nil, apierr.Unauthorized("Refresh token is expired or used").WithCause(err)
		}
		return nil, internalErr(err)
	}
	return pair, nil
}

// Revoke clears the stored refresh token of userID.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.refreshTokens.Clear(ctx, userID); err != nil {
		return internalErr(err)
	}
	return nil
}
