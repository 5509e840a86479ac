package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the decoded view of a bearer access token.
type Credential struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the credential expires before now+skew.
// Credentials without an expiry never expire client side.
func (c *Credential) Expired(now time.Time, skew time.Duration) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.ExpiresAt)
}

// ParseCredential reads the registered claims of a JWT access token without verifying its signature.
// The server stays the authority on validity; the client only uses exp to renew ahead of a 401.
func ParseCredential(token string) (*Credential, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse credential: %w", err)
	}
	ret := &Credential{Token: token, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		ret.ExpiresAt = claims.ExpiresAt.Time
	}
	return ret, nil
}
