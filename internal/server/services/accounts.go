package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/filex"
	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/auth"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
)

// RegisterInput carries the registration form. AvatarPath and
// CoverImagePath point at staged local files; empty means not provided.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Email    string
	Username string
	Password string
}

// LoginResult is returned by Login; Tokens are delivered both as cookies
// and in the response body.
type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

var errDuplicateUser = apierr.Conflict("User with email or username already exists")

var errPasswordTooLong = apierr.BadRequest("Password must be at most 72 bytes")

// AccountService handles registration, login and profile changes.
type AccountService struct {
	users    users.Repository
	tokens   *TokenService
	uploader Uploader
	logger   logging.Logger
}

func NewAccountService(u users.Repository, tokens *TokenService, uploader Uploader, logger logging.Logger) *AccountService {
	return &AccountService{
		users:    u,
		tokens:   tokens,
		uploader: uploader,
		logger:   logger.With("module", "accounts"),
	}
}

// Register creates an account. Staged files are removed on every path.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	staged := []string{in.AvatarPath, in.CoverImagePath}
	defer filex.RemoveQuietly(staged...)

	if common.IsBlank(in.FullName, in.Email, in.Username, in.Password) {
		return nil, apierr.BadRequest("All fields are required")
	}
	if auth.PasswordTooLong(in.Password) {
		return nil, errPasswordTooLong
	}

	username := normalize(in.Username)
	email := normalize(in.Email)

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, errDuplicateUser
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return nil, internalErr(err)
	}

	if in.AvatarPath == "" {
		return nil, apierr.BadRequest("Avatar file is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internalErr(err)
	}

	avatar, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil || avatar.URL == "" {
		s.logger.Error(ctx, "avatar upload failed", "error", err)
		return nil, apierr.BadGateway("Avatar file upload failed").WithCause(err)
	}

	coverURL := ""
	if in.CoverImagePath != "" {
		cover, err := s.uploader.Upload(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.Warn(ctx, "cover image upload failed, continuing without it", "error", err)
		} else {
			coverURL = cover.URL
		}
	}

	created, err := s.users.Create(ctx, &models.User{
		Username:      username,
		Email:         email,
		FullName:      strings.TrimSpace(in.FullName),
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
		PasswordHash:  hash,
		WatchHistory:  []string{},
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errDuplicateUser.WithCause(err)
		}
		return nil, internalErr(err)
	}

	user, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		return nil, apierr.Internal("Something went wrong while registering the user").WithCause(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user.Public(), nil
}

// Login checks credentials given by username or email and issues a new
// token pair, replacing any previous session of the user.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := normalize(in.Username)
	email := normalize(in.Email)
	if username == "" && email == "" {
		return nil, apierr.BadRequest("username or email is required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apierr.NotFound("User does not exist")
		}
		return nil, internalErr(err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		return nil, internalErr(err)
	}
	if !ok {
		return nil, apierr.Unauthorized("Invalid user credentials")
	}

	pair, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user.Public(), Tokens: pair}, nil
}

// Logout drops the stored refresh token of userID.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	return s.tokens.Revoke(ctx, userID)
}

// Refresh rotates a refresh token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, strings.TrimSpace(refreshToken))
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetWithPassword(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return apierr.NotFound("User does not exist")
		}
		return internalErr(err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, oldPassword)
	if err != nil {
		return internalErr(err)
	}
	if !ok {
		return apierr.BadRequest("Invalid old password")
	}
	if common.IsBlank(newPassword) {
		return apierr.BadRequest("New password is required")
	}
	if auth.PasswordTooLong(newPassword) {
		return errPasswordTooLong
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return internalErr(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return internalErr(err)
	}
	return nil
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apierr.NotFound("User does not exist")
		}
		return nil, internalErr(err)
	}
	return user.Public(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	if common.IsBlank(fullName, email) {
		return nil, apierr.BadRequest("All fields are required")
	}

	user, err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(fullName), normalize(email))
	return s.updated(user, err, "User with email already exists")
}

func (s *AccountService) UpdateAvatar(ctx context.Context, userID, avatarPath string) (*models.User, error) {
	if avatarPath == "" {
		return nil, apierr.BadRequest("Avatar file is missing")
	}

	asset, err := s.uploader.Upload(ctx, avatarPath)
	if err != nil || asset.URL == "" {
		return nil, apierr.BadRequest("Error while uploading avatar").WithCause(err)
	}

	user, err := s.users.UpdateAvatar(ctx, userID, asset.URL)
	return s.updated(user, err, "")
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID, coverPath string) (*models.User, error) {
	if coverPath == "" {
		return nil, apierr.BadRequest("Cover image file is missing")
	}

	asset, err := s.uploader.Upload(ctx, coverPath)
	if err != nil || asset.URL == "" {
		return nil, apierr.BadRequest("Error while uploading cover image").WithCause(err)
	}

	user, err := s.users.UpdateCoverImage(ctx, userID, asset.URL)
	return s.updated(user, err, "")
}

// updated maps the result of a repository update to the service contract.
func (s *AccountService) updated(user *models.User, err error, conflictMsg string) (*models.User, error) {
	switch {
	case err == nil:
		return user.Public(), nil
	case errors.Is(err, common.ErrorNotFound):
		return nil, apierr.NotFound("User does not exist")
	case conflictMsg != "" && errors.Is(err, common.ErrorAlreadyExists):
		return nil, apierr.Conflict(conflictMsg).WithCause(err)
	default:
		return nil, internalErr(err)
	}
}
