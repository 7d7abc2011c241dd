package videos

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection holding video documents.
const CollectionName = "videos"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Video, error) {
	if len(ids) == 0 {
		return []*models.Video{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := []*models.Video{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
