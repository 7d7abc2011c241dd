// Package auth signs and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user data embedded in an access token.
type Identity struct {
	UserID   string
	Email    string
	Username string
	FullName string
}

// AccessClaims are carried by short-lived access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

// RefreshClaims are carried by long-lived refresh tokens. They hold the
// user id only.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
}

const jtiSize = 16

func registeredClaims(now time.Time, validity time.Duration) (jwt.RegisteredClaims, error) {
	jti, err := common.MakeRandHexString(jtiSize)
	if err != nil {
		return jwt.RegisteredClaims{}, err
	}
	return jwt.RegisteredClaims{
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	}, nil
}

// GenerateAccessToken signs an access token for id valid for validity.
func GenerateAccessToken(id Identity, secretKey []byte, validity time.Duration) (string, error) {
	rc, err := registeredClaims(time.Now(), validity)
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: rc,
		UserID:           id.UserID,
		Email:            id.Email,
		Username:         id.Username,
		FullName:         id.FullName,
	})
	return token.SignedString(secretKey)
}

// GenerateRefreshToken signs a refresh token for userID and returns it with
// its expiry.
func GenerateRefreshToken(userID string, secretKey []byte, validity time.Duration) (string, time.Time, error) {
	rc, err := registeredClaims(time.Now(), validity)
	if err != nil {
		return "", time.Time{}, err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: rc,
		UserID:           userID,
	})
	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, rc.ExpiresAt.Time, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// An expired token yields common.ErrTokenExpired; anything else that fails
// verification wraps common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken is ParseAccessToken for refresh tokens.
func ParseRefreshToken(tokenString string, secretKey []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
