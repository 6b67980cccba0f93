package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry indicates the token carries no expiry claim.
var ErrNoExpiry = errors.New("api: token has no expiry claim")

// TokenExpiry decodes the session token's expiry claim so the UI can warn
// before the session lapses. The token is decoded without verification; only
// the server holds the signing key, and this is display metadata, not an
// auth decision.
func TokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the token's expiry claim has passed. A token
// without an expiry claim is treated as live; the server has the final say.
func TokenExpired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return exp.Before(now)
}
