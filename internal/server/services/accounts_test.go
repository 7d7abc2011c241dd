package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blindUsers hides existing users from the pre-check and can fail the
// post-create read, so storage-level behaviour can be observed.
type blindUsers struct {
	users.Repository
	hideExisting bool
	getByIDErr   error
}

func (b *blindUsers) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	if b.hideExisting {
		return nil, common.ErrorNotFound
	}
	return b.Repository.FindByUsernameOrEmail(ctx, username, email)
}

func (b *blindUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if b.getByIDErr != nil {
		return nil, b.getByIDErr
	}
	return b.Repository.GetByID(ctx, id)
}

func fileGone(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "staged file %s should be removed", path)
}

func TestRegister_Success(t *testing.T) {
	d := newDeps(t)
	avatar, cover := stage(t, "a.png"), stage(t, "c.png")

	u, err := d.accounts.Register(context.Background(), RegisterInput{
		FullName:       "  Alice Liddell ",
		Email:          " Alice@Example.COM",
		Username:       "AliceL",
		Password:       "secret",
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alicel", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice Liddell", u.FullName)
	assert.Equal(t, "https://media.test/a.png", u.AvatarURL)
	assert.Equal(t, "https://media.test/c.png", u.CoverImageURL)
	assert.Empty(t, u.PasswordHash)
	assert.Nil(t, u.RefreshToken)
	assert.Equal(t, []string{}, u.WatchHistory)

	stored, err := d.store.Users().GetWithPassword(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	fileGone(t, avatar)
	fileGone(t, cover)
}

func TestRegister_Validation(t *testing.T) {
	d := newDeps(t)
	register(t, d, "taken", "taken@example.com", "pw")

	tests := []struct {
		name    string
		in      RegisterInput
		status  int
		message string
	}{
		{
			name:    "blank full name",
			in:      RegisterInput{FullName: "  ", Email: "a@b.c", Username: "a", Password: "p"},
			status:  http.StatusBadRequest,
			message: "All fields are required",
		},
		{
			name:    "missing password",
			in:      RegisterInput{FullName: "A", Email: "a@b.c", Username: "a"},
			status:  http.StatusBadRequest,
			message: "All fields are required",
		},
		{
			name:    "missing avatar",
			in:      RegisterInput{FullName: "A", Email: "a@b.c", Username: "a", Password: "p"},
			status:  http.StatusBadRequest,
			message: "Avatar file is required",
		},
		{
			name:    "username taken in other case",
			in:      RegisterInput{FullName: "A", Email: "new@example.com", Username: "TAKEN", Password: "p"},
			status:  http.StatusConflict,
			message: "User with email or username already exists",
		},
		{
			name:    "email taken",
			in:      RegisterInput{FullName: "A", Email: "Taken@example.com", Username: "fresh", Password: "p"},
			status:  http.StatusConflict,
			message: "User with email or username already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatar := ""
			if tt.message != "Avatar file is required" {
				avatar = stage(t, "x.png")
				tt.in.AvatarPath = avatar
			}
			_, err := d.accounts.Register(context.Background(), tt.in)
			requireAPIError(t, err, tt.status, tt.message)
			if avatar != "" {
				fileGone(t, avatar)
			}
		})
	}
}

func TestRegister_StorageConflictWhenPrecheckMisses(t *testing.T) {
	d := newDeps(t)
	register(t, d, "alice", "alice@example.com", "pw")

	blind := &blindUsers{Repository: d.store.Users(), hideExisting: true}
	svc := NewAccountService(blind, d.tokens, d.uploader, testLogger())

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Other", Email: "other@example.com", Username: "Alice", Password: "pw",
		AvatarPath: stage(t, "a.png"),
	})
	requireAPIError(t, err, http.StatusConflict, "User with email or username already exists")
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestRegister_ConcurrentSameIdentity(t *testing.T) {
	d := newDeps(t)

	var ok, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		avatar := stage(t, "a.png")
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.accounts.Register(context.Background(), RegisterInput{
				FullName: "Dup", Email: "dup@example.com", Username: "dup", Password: "pw", AvatarPath: avatar,
			})
			if err == nil {
				ok.Add(1)
				return
			}
			if ae, isAPI := apierr.As(err); isAPI && ae.StatusCode == http.StatusConflict {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(5), conflicts.Load())
}

func TestRegister_UploadOutcomes(t *testing.T) {
	t.Run("avatar upload fails", func(t *testing.T) {
		d := newDeps(t)
		d.uploader.failFor["bad.png"] = errors.New("host down")

		_, err := d.accounts.Register(context.Background(), RegisterInput{
			FullName: "A", Email: "a@example.com", Username: "a", Password: "p",
			AvatarPath: stage(t, "bad.png"),
		})
		requireAPIError(t, err, http.StatusBadGateway, "Avatar file upload failed")
	})

	t.Run("cover upload failure degrades to empty cover", func(t *testing.T) {
		d := newDeps(t)
		d.uploader.failFor["cover.png"] = errors.New("host down")

		u, err := d.accounts.Register(context.Background(), RegisterInput{
			FullName: "A", Email: "a@example.com", Username: "a", Password: "p",
			AvatarPath: stage(t, "ok.png"), CoverImagePath: stage(t, "cover.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "", u.CoverImageURL)
		assert.Equal(t, "https://media.test/ok.png", u.AvatarURL)
	})

	t.Run("created but unreadable", func(t *testing.T) {
		d := newDeps(t)
		blind := &blindUsers{Repository: d.store.Users(), getByIDErr: common.ErrorNotFound}
		svc := NewAccountService(blind, d.tokens, d.uploader, testLogger())

		_, err := svc.Register(context.Background(), RegisterInput{
			FullName: "A", Email: "a@example.com", Username: "a", Password: "p",
			AvatarPath: stage(t, "ok.png"),
		})
		requireAPIError(t, err, http.StatusInternalServerError, "Something went wrong while registering the user")
	})
}

func TestLogin(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "u1", "e1@example.com", "pw1")

	res, err := d.accounts.Login(context.Background(), LoginInput{Username: "u1", Email: "e1@example.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.Username)
	assert.Empty(t, res.User.PasswordHash)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)

	claims, err := d.tokens.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	stored, err := d.store.RefreshTokens().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, res.Tokens.RefreshToken, stored.Token)

	_, err = d.accounts.Login(context.Background(), LoginInput{Email: " E1@Example.com ", Password: "pw1"})
	require.NoError(t, err)

	_, err = d.accounts.Login(context.Background(), LoginInput{Password: "pw1"})
	requireAPIError(t, err, http.StatusBadRequest, "username or email is required")

	_, err = d.accounts.Login(context.Background(), LoginInput{Username: "nobody", Password: "pw1"})
	requireAPIError(t, err, http.StatusNotFound, "User does not exist")

	_, err = d.accounts.Login(context.Background(), LoginInput{Username: "u1", Password: "wrong"})
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid user credentials")
}

func TestLogoutThenRefreshFails(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "alice", "alice@example.com", "pw")

	res, err := d.accounts.Login(context.Background(), LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	pair, err := d.accounts.Refresh(context.Background(), " "+res.Tokens.RefreshToken+" ")
	require.NoError(t, err)

	require.NoError(t, d.accounts.Logout(context.Background(), id))
	require.NoError(t, d.accounts.Logout(context.Background(), id))

	_, err = d.accounts.Refresh(context.Background(), pair.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, "Refresh token is expired or used")
}

func TestChangePassword(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "alice", "alice@example.com", "old-pw")

	err := d.accounts.ChangePassword(context.Background(), id, "nope", "new-pw")
	requireAPIError(t, err, http.StatusBadRequest, "Invalid old password")

	err = d.accounts.ChangePassword(context.Background(), id, "old-pw", "  ")
	requireAPIError(t, err, http.StatusBadRequest, "New password is required")

	err = d.accounts.ChangePassword(context.Background(), "ghost", "old-pw", "new-pw")
	requireAPIError(t, err, http.StatusNotFound, "User does not exist")

	require.NoError(t, d.accounts.ChangePassword(context.Background(), id, "old-pw", "new-pw"))

	_, err = d.accounts.Login(context.Background(), LoginInput{Username: "alice", Password: "old-pw"})
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid user credentials")
	_, err = d.accounts.Login(context.Background(), LoginInput{Username: "alice", Password: "new-pw"})
	require.NoError(t, err)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	d := newDeps(t)
	avatar, cover := stage(t, "a.png"), stage(t, "c.png")

	_, err := d.accounts.Register(context.Background(), RegisterInput{
		FullName:       "Alice",
		Email:          "alice@example.com",
		Username:       "alice",
		Password:       strings.Repeat("p", 80),
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	requireAPIError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")

	assert.Empty(t, d.uploader.uploaded)
	fileGone(t, avatar)
	fileGone(t, cover)

	u, err := d.accounts.Register(context.Background(), RegisterInput{
		FullName:   "Alice",
		Email:      "alice@example.com",
		Username:   "alice",
		Password:   strings.Repeat("p", 72),
		AvatarPath: stage(t, "a2.png"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
}

func TestChangePassword_TooLong(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "alice", "alice@example.com", "pw")

	err := d.accounts.ChangePassword(context.Background(), id, "pw", strings.Repeat("q", 80))
	requireAPIError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")

	_, err = d.accounts.Login(context.Background(), LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
}

func TestCurrentUserAndUpdateProfile(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "alice", "alice@example.com", "pw")
	register(t, d, "bob", "bob@example.com", "pw")

	me, err := d.accounts.CurrentUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = d.accounts.CurrentUser(context.Background(), "ghost")
	requireAPIError(t, err, http.StatusNotFound, "User does not exist")

	_, err = d.accounts.UpdateProfile(context.Background(), id, "", "x@example.com")
	requireAPIError(t, err, http.StatusBadRequest, "All fields are required")

	_, err = d.accounts.UpdateProfile(context.Background(), id, "Alice", "BOB@example.com")
	requireAPIError(t, err, http.StatusConflict, "User with email already exists")

	u, err := d.accounts.UpdateProfile(context.Background(), id, " Alice B ", "Alice.B@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.FullName)
	assert.Equal(t, "alice.b@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)
}

func TestUpdateMedia(t *testing.T) {
	d := newDeps(t)
	id := register(t, d, "alice", "alice@example.com", "pw")

	_, err := d.accounts.UpdateAvatar(context.Background(), id, "")
	requireAPIError(t, err, http.StatusBadRequest, "Avatar file is missing")

	_, err = d.accounts.UpdateCoverImage(context.Background(), id, "")
	requireAPIError(t, err, http.StatusBadRequest, "Cover image file is missing")

	d.uploader.failFor["broken.png"] = errors.New("host down")
	_, err = d.accounts.UpdateAvatar(context.Background(), id, stage(t, "broken.png"))
	requireAPIError(t, err, http.StatusBadRequest, "Error while uploading avatar")
	_, err = d.accounts.UpdateCoverImage(context.Background(), id, stage(t, "broken.png"))
	requireAPIError(t, err, http.StatusBadRequest, "Error while uploading cover image")

	u, err := d.accounts.UpdateAvatar(context.Background(), id, stage(t, "new-avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/new-avatar.png", u.AvatarURL)

	u, err = d.accounts.UpdateCoverImage(context.Background(), id, stage(t, "new-cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/new-cover.png", u.CoverImageURL)

	_, err = d.accounts.UpdateAvatar(context.Background(), "ghost", stage(t, "x.png"))
	requireAPIError(t, err, http.StatusNotFound, "User does not exist")
}
