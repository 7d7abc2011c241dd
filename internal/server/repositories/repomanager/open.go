package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/memory"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seams for tests.
var (
	sqlOpen      = sql.Open
	mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(uri))
	}
)

// Open connects to the storage selected by cfg.StorageDriver and verifies
// the connection is usable. Migrations are not run.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := sqlOpen("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		return NewPostgresRepositoryManager(db), nil

	case config.StorageMongo:
		client, err := mongoConnect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo connect error: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo ping error: %w", err)
		}
		return NewMongoRepositoryManager(client, cfg.MongoDatabase), nil

	case config.StorageMemory:
		return NewMemoryRepositoryManager(memory.NewStore()), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
