package session

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the identity returned by the login endpoint. Only a few fields are
// interpreted; the whole object is kept in Raw.
type User struct {
	ID       string          `json:"id,omitempty"`
	Username string          `json:"username,omitempty"`
	Role     string          `json:"role,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// Credential is the bearer token plus the identity it was issued for.
type Credential struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Clone returns a copy of the credential; nil stays nil.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}

	cloned := *c
	if c.User.Raw != nil {
		cloned.User.Raw = append(json.RawMessage(nil), c.User.Raw...)
	}

	return &cloned
}

// ExpiresAt reads the exp claim when the token happens to be a JWT.
// The signature is not verified: the server stays the authority and the
// value only feeds a startup warning.
func (c *Credential) ExpiresAt() (time.Time, bool) {
	if c == nil || c.Token == "" {
		return time.Time{}, false
	}

	claims := new(jwt.RegisteredClaims)

	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
