// Package common contains shared constants and sentinel errors used across
// vidhub components.
package common

// Cookie names used to deliver session tokens to browsers.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeader carries "Bearer <token>" for non-browser clients.
const AuthorizationHeader = "Authorization"

// BearerPrefix is stripped from AuthorizationHeader values.
const BearerPrefix = "Bearer "

// BcryptCost matches the work factor used for stored password hashes.
const BcryptCost = 10
