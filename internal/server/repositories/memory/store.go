// Package memory keeps every repository in process memory. It is safe for
// concurrent use and backs the "memory" storage driver used in development
// and in service tests.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/google/uuid"
)

// Store holds users, videos and subscriptions behind a single lock so that
// uniqueness checks and refresh-token swaps are atomic.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	videos        map[string]*models.Video
	subscriptions []models.Subscription
	now           func() time.Time
	newID         func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		videos: make(map[string]*models.Video),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) RefreshTokens() *RefreshTokenRepository { return &RefreshTokenRepository{s: s} }
func (s *Store) Videos() *VideoRepository               { return &VideoRepository{s: s} }
func (s *Store) Subscriptions() *SubscriptionRepository { return &SubscriptionRepository{s: s} }

// AddVideo inserts or replaces a video. Missing ID and timestamps are filled in.
func (s *Store) AddVideo(v models.Video) *models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = s.newID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now().UTC()
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = v.CreatedAt
	}
	s.videos[v.ID] = &v
	c := v
	return &c
}

// Subscribe records that subscriberID follows channelID. Repeating the same
// pair is a no-op.
func (s *Store) Subscribe(subscriberID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscriptions {
		if sub.Subscriber == subscriberID && sub.Channel == channelID {
			return
		}
	}
	now := s.now().UTC()
	s.subscriptions = append(s.subscriptions, models.Subscription{
		ID:         s.newID(),
		Subscriber: subscriberID,
		Channel:    channelID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// AppendHistory appends video ids to the user's watch history. It reports
// false when the user does not exist.
func (s *Store) AppendHistory(userID string, videoIDs ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false
	}
	u.WatchHistory = append(u.WatchHistory, videoIDs...)
	return true
}

// findLocked returns the stored user matching pred. Callers hold s.mu.
func (s *Store) findLocked(pred func(*models.User) bool) *models.User {
	for _, u := range s.users {
		if pred(u) {
			return u
		}
	}
	return nil
}

// conflictLocked reports whether another user already owns username or email.
func (s *Store) conflictLocked(selfID, username, email string) bool {
	return s.findLocked(func(u *models.User) bool {
		if u.ID == selfID {
			return false
		}
		return (username != "" && strings.EqualFold(u.Username, username)) ||
			(email != "" && strings.EqualFold(u.Email, email))
	}) != nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.WatchHistory = append([]string{}, u.WatchHistory...)
	if u.RefreshToken != nil {
		rt := *u.RefreshToken
		c.RefreshToken = &rt
	}
	return &c
}
