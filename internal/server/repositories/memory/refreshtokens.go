package memory

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// RefreshTokenRepository implements refreshtokens.Repository on a Store.
type RefreshTokenRepository struct {
	s *Store
}

func (r *RefreshTokenRepository) Get(_ context.Context, userID string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if u.RefreshToken == nil {
		return nil, nil
	}
	rt := *u.RefreshToken
	return &rt, nil
}

func (r *RefreshTokenRepository) Set(_ context.Context, userID string, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	rt := *token
	u.RefreshToken = &rt
	return nil
}

func (r *RefreshTokenRepository) Replace(_ context.Context, userID, current string, next *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok || u.RefreshToken == nil || u.RefreshToken.Token != current {
		return common.ErrRefreshTokenMismatch
	}
	rt := *next
	u.RefreshToken = &rt
	return nil
}

func (r *RefreshTokenRepository) Clear(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[userID]; ok {
		u.RefreshToken = nil
	}
	return nil
}
