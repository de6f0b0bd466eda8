package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the signed contents of a session token. There is no
// server-side session record; signature and expiry are the whole truth.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid,omitempty"`
}

// UserID returns the user the token was issued for.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiry instant, or the zero time if unset.
func (c *SessionClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns the issuance instant, or the zero time if unset.
func (c *SessionClaims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
