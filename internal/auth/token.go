package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Verification is the backend's job; the client only needs to know when to
// stop sending the token. ok is false for opaque tokens or tokens without
// an exp claim.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject returns the sub claim, usually the username.
func Subject(token string) string {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// expiredAt reports whether the token carries an exp at or before now.
// Tokens without a readable exp never expire locally.
func expiredAt(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !now.Before(exp)
}
