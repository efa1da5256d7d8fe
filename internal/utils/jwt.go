package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token type discriminators.  An access token can never be replayed as a
// refresh token (and vice versa) because Parse checks this claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, expired, wrong type, or missing identity claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both access and refresh tokens.  The
// subject always duplicates UserID, which Parse enforces.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// NewToken builds and signs an HS256 JWT of the given type for a user.  The
// claims include the user id both as a custom field and as the registered
// subject, the user name, the token type, issued-at and expiry.
func NewToken(secret, tokenType, userID, name string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Name:   name,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies a token against the secret and the expected type and returns
// its claims.  Any failure collapses into ErrInvalidToken; callers map it to
// the appropriate HTTP error.
func Parse(raw, secret, wantType string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC before touching the secret.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Name == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject != claims.UserID {
		return Claims{}, ErrInvalidToken
	}
	if claims.Type != wantType {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
