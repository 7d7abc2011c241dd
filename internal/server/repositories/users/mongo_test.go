package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "videotube.users"

func userDoc(id, username, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "email", Value: email},
		{Key: "fullName", Value: "Full " + username},
		{Key: "avatar", Value: "http://cdn/" + username + ".png"},
		{Key: "coverImage", Value: ""},
		{Key: "watchHistory", Value: bson.A{"v1", "v2"}},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		repo.now = func() time.Time { return fixed }

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &models.User{Username: "u1", Email: "u1@example.com", PasswordHash: "h"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, u.ID)
		assert.Equal(mt, fixed, u.CreatedAt)
		assert.Equal(mt, []string{}, u.WatchHistory)
	})

	mt.Run("create duplicate key", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: videotube.users index: email_1",
		}))

		_, err := repo.Create(context.Background(), &models.User{Username: "u1", Email: "u1@example.com"})
		assert.True(mt, errors.Is(err, common.ErrorAlreadyExists), "got %v", err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc("u-1", "alice", "a@example.com")))

		u, err := repo.GetByID(context.Background(), "u-1")
		require.NoError(mt, err)
		assert.Equal(mt, "alice", u.Username)
		assert.Equal(mt, []string{"v1", "v2"}, u.WatchHistory)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "ghost")
		assert.True(mt, errors.Is(err, common.ErrorNotFound), "got %v", err)
	})

	mt.Run("get by ids", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userDoc("a", "alice", "a@example.com"),
			userDoc("b", "bob", "b@example.com"),
		))

		got, err := repo.GetByIDs(context.Background(), []string{"a", "b", "c"})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "bob", got[1].Username)
	})

	mt.Run("find by username or email requires a key", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		_, err := repo.FindByUsernameOrEmail(context.Background(), "", "")
		assert.True(mt, errors.Is(err, common.ErrorNotFound))
	})

	mt.Run("find by username or email loads password", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		doc := append(userDoc("u-1", "alice", "a@example.com"), bson.E{Key: "password", Value: "$2a$10$hash"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc))

		u, err := repo.FindByUsernameOrEmail(context.Background(), "alice", "")
		require.NoError(mt, err)
		assert.Equal(mt, "$2a$10$hash", u.PasswordHash)
	})

	mt.Run("update profile returns updated document", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		updated := userDoc("u-1", "alice", "new@example.com")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: updated}))

		u, err := repo.UpdateProfile(context.Background(), "u-1", "Alice", "new@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "new@example.com", u.Email)
	})

	mt.Run("update profile duplicate email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error",
		}))

		_, err := repo.UpdateProfile(context.Background(), "u-1", "Alice", "taken@example.com")
		assert.True(mt, errors.Is(err, common.ErrorAlreadyExists), "got %v", err)
	})

	mt.Run("update password unknown user", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdatePassword(context.Background(), "ghost", "h")
		assert.True(mt, errors.Is(err, common.ErrorNotFound), "got %v", err)
	})

	mt.Run("update password", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		require.NoError(mt, repo.UpdatePassword(context.Background(), "u-1", "h"))
	})

	mt.Run("watch history", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u-1"}, {Key: "watchHistory", Value: bson.A{"v9", "v3"}}}))

		ids, err := repo.WatchHistory(context.Background(), "u-1")
		require.NoError(mt, err)
		assert.Equal(mt, []string{"v9", "v3"}, ids)
	})

	mt.Run("watch history missing field", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: "u-1"}}))

		ids, err := repo.WatchHistory(context.Background(), "u-1")
		require.NoError(mt, err)
		assert.Empty(mt, ids)
	})
}
