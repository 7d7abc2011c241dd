package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

var publicProjection = bson.M{"password": 0, "refreshToken": 0}

// MongoRepository implements Repository over a MongoDB collection. Unique
// indexes on username and email are created by the repository manager.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}
	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return nil, translateMongo(err)
	}
	return user, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, projection any) (*models.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var u models.User
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&u); err != nil {
		return nil, translateMongo(err)
	}
	return &u, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, publicProjection)
}

func (r *MongoRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(publicProjection))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := []*models.User{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, publicProjection)
}

func (r *MongoRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or}, bson.M{"refreshToken": 0})
}

func (r *MongoRepository) GetWithPassword(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, bson.M{"refreshToken": 0})
}

func (r *MongoRepository) updateReturning(ctx context.Context, id string, set bson.M) (*models.User, error) {
	set["updatedAt"] = r.now().UTC()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var u models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, translateMongo(err)
	}
	return &u, nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	return r.updateReturning(ctx, id, bson.M{"fullName": fullName, "email": email})
}

func (r *MongoRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error) {
	return r.updateReturning(ctx, id, bson.M{"avatar": avatarURL})
}

func (r *MongoRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error) {
	return r.updateReturning(ctx, id, bson.M{"coverImage": coverImageURL})
}

func (r *MongoRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": r.now().UTC()}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) WatchHistory(ctx context.Context, id string) ([]string, error) {
	var doc struct {
		WatchHistory []string `bson:"watchHistory"`
	}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"watchHistory": 1})).Decode(&doc)
	if err != nil {
		return nil, translateMongo(err)
	}
	if doc.WatchHistory == nil {
		return []string{}, nil
	}
	return doc.WatchHistory, nil
}

func translateMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrorNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}
