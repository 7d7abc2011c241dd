package refreshtokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// MongoRepository keeps the token in the refreshToken sub-document of the
// user document.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoRepository) Get(ctx context.Context, userID string) (*models.RefreshToken, error) {
	var doc struct {
		RefreshToken *models.RefreshToken `bson:"refreshToken"`
	}
	opts := options.FindOne().SetProjection(bson.M{"refreshToken": 1})
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.RefreshToken, nil
}

func (r *MongoRepository) Set(ctx context.Context, userID string, token *models.RefreshToken) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"refreshToken": token}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Replace(ctx context.Context, userID, current string, next *models.RefreshToken) error {
	filter := bson.M{"_id": userID, "refreshToken.token": current}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"refreshToken": next}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrRefreshTokenMismatch
	}
	return nil
}

func (r *MongoRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$unset": bson.M{"refreshToken": ""}}); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
