package models

import "time"

// CachedToken is a provider access token persisted to the shared token
// cache. Field names are camelCase on disk so caches written by the AWS
// CLI v2 and by this tool are interchangeable.
type CachedToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Region      string    `json:"region,omitempty"`
	StartURL    string    `json:"startUrl,omitempty"`
}

// IsValid reports whether the token is still usable at the given instant.
// Expiry is exclusive: a token expiring exactly now is invalid.
func (t *CachedToken) IsValid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

// ExpiresIn returns the remaining lifetime, floored at zero.
func (t *CachedToken) ExpiresIn(now time.Time) time.Duration {
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
