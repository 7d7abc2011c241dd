package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/videos"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepositoryManager vends MongoDB-backed repositories sharing one
// database handle.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: client.Database(database)}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Videos() videos.Repository {
	return videos.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Subscriptions() subscriptions.Repository {
	return subscriptions.NewMongoRepository(m.db)
}

// RunMigrations creates the indexes the repositories rely on. The unique
// indexes on username and email are what make registration race-free.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := m.db.Collection(users.CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("error creating user indexes: %w", err)
	}

	_, err = m.db.Collection(subscriptions.CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "channel", Value: 1}}},
		{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("error creating subscription indexes: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
