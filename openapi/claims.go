package openapi

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the access token claims the client reads. The token is
// decoded without verification; the server is the one that checks it.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name              string           `json:"name,omitempty"`
	PreferredUsername string           `json:"preferred_username,omitempty"`
	ClientID          string           `json:"client_id,omitempty"`
	Role              jwt.ClaimStrings `json:"role,omitempty"`
}

// ParseAccessToken decodes the claims of a JWT access token.
func ParseAccessToken(raw string) (*TokenClaims, error) {
	var claims TokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return &claims, nil
}

// UserName returns the most specific user identity in the token.
func (c *TokenClaims) UserName() string {
	for _, s := range []string{c.PreferredUsername, c.Name, c.Subject, c.ClientID} {
		if s != "" {
			return s
		}
	}
	return ""
}
