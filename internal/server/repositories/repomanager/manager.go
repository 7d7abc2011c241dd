// Package repomanager vends the repositories of one storage driver and owns
// the underlying connection: schema setup on start and release on shutdown.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/videos"
)

type RepositoryManager interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Videos() videos.Repository
	Subscriptions() subscriptions.Repository

	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error

	Close(ctx context.Context) error
}
