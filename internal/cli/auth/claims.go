package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims read from a bearer token.
//
// The signature is NOT verified; the client only uses the claims to
// show expiry and to skip restoring tokens that are already dead.
type TokenClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseTokenClaims decodes a JWT without verifying it. Opaque tokens
// return an error.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("auth: parse token claims: %w", err)
	}

	tc := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		tc.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		tc.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}

// Expired reports whether the token has an expiry at or before now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c != nil && !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Remaining returns the time left before expiry, or 0 if unknown or past.
func (c *TokenClaims) Remaining(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt.IsZero() || !now.Before(c.ExpiresAt) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
