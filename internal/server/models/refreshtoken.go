package models

import "time"

// RefreshToken is the single session record a user may hold. Issuing a new
// pair replaces it and logging out clears it.
type RefreshToken struct {
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expiresAt"`
}
