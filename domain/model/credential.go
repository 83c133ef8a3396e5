package model

import "time"

// ExpiryMargin is the safety window before the real expiry during which an
// access token is already treated as unusable.
const ExpiryMargin = 5 * time.Minute

// Credential is the OAuth2 access/refresh token pair plus expiry used to
// authorize user-scoped catalog calls. It is replaced wholesale on refresh
// and destroyed on logout.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UsableAt reports whether the access token may still be sent at the given
// instant. Tokens within ExpiryMargin of expiry count as expired.
func (c *Credential) UsableAt(now time.Time) bool {
	if c == nil || c.AccessToken == "" || c.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-ExpiryMargin))
}
