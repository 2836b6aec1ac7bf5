package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a session token. The subject is the
// identity provider's user id.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// UserID returns the user the token was issued to.
func (c *TokenClaims) UserID() string {
	return c.Subject
}
