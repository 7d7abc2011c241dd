// Package models defines server-side data models persisted by the
// repositories and rendered by the REST layer.
package models

import "time"

// User is an account and, at the same time, a channel other users can
// subscribe to.
//
// PasswordHash and RefreshToken never leave the server: they are excluded
// from JSON and only populated by repository calls that explicitly load
// credentials.
type User struct {
	ID            string        `json:"_id" bson:"_id"`
	Username      string        `json:"username" bson:"username"`
	Email         string        `json:"email" bson:"email"`
	FullName      string        `json:"fullName" bson:"fullName"`
	AvatarURL     string        `json:"avatar" bson:"avatar"`
	CoverImageURL string        `json:"coverImage" bson:"coverImage"`
	WatchHistory  []string      `json:"watchHistory" bson:"watchHistory"`
	PasswordHash  string        `json:"-" bson:"password,omitempty"`
	RefreshToken  *RefreshToken `json:"-" bson:"refreshToken,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy of u with credentials stripped.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = nil
	if c.WatchHistory == nil {
		c.WatchHistory = []string{}
	}
	return &c
}
