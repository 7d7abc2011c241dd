package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection holding subscription documents.
const CollectionName = "subscriptions"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

type countBucket []struct {
	N int64 `bson:"n"`
}

func (b countBucket) value() int64 {
	if len(b) == 0 {
		return 0
	}
	return b[0].N
}

// Stats runs a single aggregation: the $match narrows to documents touching
// the channel, then $facet counts each side.
func (r *MongoRepository) Stats(ctx context.Context, channelID, viewerID string) (*models.SubscriptionStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"channel": channelID},
			bson.M{"subscriber": channelID},
		}}}},
		{{Key: "$facet", Value: bson.M{
			"subscribers": bson.A{
				bson.M{"$match": bson.M{"channel": channelID}},
				bson.M{"$count": "n"},
			},
			"subscribedTo": bson.A{
				bson.M{"$match": bson.M{"subscriber": channelID}},
				bson.M{"$count": "n"},
			},
			"viewer": bson.A{
				bson.M{"$match": bson.M{"channel": channelID, "subscriber": viewerID}},
				bson.M{"$count": "n"},
			},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var facets struct {
		Subscribers  countBucket `bson:"subscribers"`
		SubscribedTo countBucket `bson:"subscribedTo"`
		Viewer       countBucket `bson:"viewer"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&facets); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.SubscriptionStats{
		Subscribers:  facets.Subscribers.value(),
		SubscribedTo: facets.SubscribedTo.value(),
		IsSubscribed: viewerID != "" && facets.Viewer.value() > 0,
	}, nil
}
