// Package services contains server-side business logic: token issuance and
// rotation, account management and the channel read model. Failures are
// returned as *apierr.Error so the transport can render them unchanged.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/media"
)

// Uploader sends a staged local file to the media host.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
}

func internalErr(err error) error {
	return apierr.Internal("Internal server error").WithCause(err)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
