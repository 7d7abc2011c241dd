// Package videos provides read access to video records. Uploading and
// editing videos happens elsewhere; this server only resolves watch history.
package videos

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

type Repository interface {
	// GetByIDs returns the videos that exist among ids, in no particular
	// order. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Video, error)
}
