// Package refreshtokens declares the repository contract for the single
// refresh-token record each user may hold, with PostgreSQL and MongoDB
// implementations. The record lives on the user row/document.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// Repository reads and writes a user's refresh-token record.
type Repository interface {
	// Get returns the stored token, or (nil, nil) when none is stored.
	// An unknown user yields common.ErrorNotFound.
	Get(ctx context.Context, userID string) (*models.RefreshToken, error)

	// Set overwrites the stored token unconditionally.
	Set(ctx context.Context, userID string, token *models.RefreshToken) error

	// Replace stores next only if the currently stored token string equals
	// current, and fails with common.ErrRefreshTokenMismatch otherwise. Of
	// two concurrent Replace calls with the same current value at most one
	// succeeds.
	Replace(ctx context.Context, userID, current string, next *models.RefreshToken) error

	// Clear removes the stored token. Clearing an already empty record is
	// not an error.
	Clear(ctx context.Context, userID string) error
}
