package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/config"
	"github.com/dmitrijs2005/vidhub/internal/server/media"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- helpers ---

type fakeUploader struct {
	mu       sync.Mutex
	failFor  map[string]error
	uploaded []string
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, localPath)
	if err, ok := f.failFor[filepath.Base(localPath)]; ok {
		return nil, err
	}
	return &media.Asset{URL: "https://media.test/" + filepath.Base(localPath), Key: filepath.Base(localPath)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "access-k",
		RefreshTokenSecret:           "refresh-k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func testLogger() logging.Logger {
	return logging.NewZapLogger(zap.NewNop())
}

type deps struct {
	store    *memory.Store
	uploader *fakeUploader
	tokens   *TokenService
	accounts *AccountService
	channels *ChannelService
}

func newDeps(t *testing.T) *deps {
	t.Helper()
	store := memory.NewStore()
	up := &fakeUploader{failFor: map[string]error{}}
	tokens := NewTokenService(store.Users(), store.RefreshTokens(), testConfig(), testLogger())
	return &deps{
		store:    store,
		uploader: up,
		tokens:   tokens,
		accounts: NewAccountService(store.Users(), tokens, up, testLogger()),
		channels: NewChannelService(store.Users(), store.Videos(), store.Subscriptions()),
	}
}

// stage writes a file named name into a temp dir and returns its path.
func stage(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))
	return p
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "expected *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.StatusCode, "message: %s", ae.Message)
	if message != "" {
		require.Equal(t, message, ae.Message)
	}
}

func register(t *testing.T, d *deps, username, email, password string) string {
	t.Helper()
	u, err := d.accounts.Register(context.Background(), RegisterInput{
		FullName:   "Full " + username,
		Email:      email,
		Username:   username,
		Password:   password,
		AvatarPath: stage(t, username+"-avatar.png"),
	})
	require.NoError(t, err)
	return u.ID
}
