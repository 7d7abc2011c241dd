// Package users declares the repository contract for user accounts and
// provides PostgreSQL and MongoDB implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// Repository stores user accounts.
//
// Reads return the public projection (no PasswordHash, no RefreshToken)
// unless the method says otherwise. Missing users yield common.ErrorNotFound;
// username/email collisions yield common.ErrorAlreadyExists.
type Repository interface {
	// Create inserts user, assigning ID and timestamps.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByIDs returns the users that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByUsernameOrEmail matches either field; an empty argument matches
	// nothing. The result includes PasswordHash.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// GetWithPassword is GetByID including PasswordHash.
	GetWithPassword(ctx context.Context, id string) (*models.User, error)

	UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// WatchHistory returns the ordered video ids the user has watched.
	WatchHistory(ctx context.Context, id string) ([]string, error)
}
