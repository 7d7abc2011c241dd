package memory

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// UserRepository implements users.Repository on a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflictLocked("", user.Username, user.Email) {
		return nil, common.ErrorAlreadyExists
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	now := s.now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now
	stored.RefreshToken = nil
	s.users[stored.ID] = stored

	return project(stored, false), nil
}

func (r *UserRepository) get(id string, withPassword bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return project(u, withPassword), nil
}

func project(u *models.User, withPassword bool) *models.User {
	c := cloneUser(u)
	c.RefreshToken = nil
	if !withPassword {
		c.PasswordHash = ""
	}
	return c
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.get(id, false)
}

func (r *UserRepository) GetWithPassword(_ context.Context, id string) (*models.User, error) {
	return r.get(id, true)
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.s.users[id]; ok {
			result = append(result, project(u, false))
		}
	}
	return result, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u := r.s.findLocked(func(u *models.User) bool { return u.Username == username })
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return project(u, false), nil
}

func (r *UserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u := r.s.findLocked(func(u *models.User) bool {
		return (username != "" && u.Username == username) || (email != "" && u.Email == email)
	})
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return project(u, true), nil
}

func (r *UserRepository) update(id string, mutate func(u *models.User) error) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := mutate(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now().UTC()
	return project(u, false), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id, fullName, email string) (*models.User, error) {
	return r.update(id, func(u *models.User) error {
		if r.s.conflictLocked(id, "", email) {
			return common.ErrorAlreadyExists
		}
		u.FullName, u.Email = fullName, email
		return nil
	})
}

func (r *UserRepository) UpdateAvatar(_ context.Context, id, avatarURL string) (*models.User, error) {
	return r.update(id, func(u *models.User) error {
		u.AvatarURL = avatarURL
		return nil
	})
}

func (r *UserRepository) UpdateCoverImage(_ context.Context, id, coverImageURL string) (*models.User, error) {
	return r.update(id, func(u *models.User) error {
		u.CoverImageURL = coverImageURL
		return nil
	})
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := r.update(id, func(u *models.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
	return err
}

func (r *UserRepository) WatchHistory(_ context.Context, id string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]string{}, u.WatchHistory...), nil
}
