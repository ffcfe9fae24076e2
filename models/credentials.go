package models

import (
	"fmt"
	"time"
)

// RoleCredentials is the short-lived key/secret/token triple for one
// account+role, persisted to the role-credential cache.
type RoleCredentials struct {
	AccessKeyID     string    `json:"access_key_id"`
	SecretAccessKey string    `json:"secret_access_key"`
	SessionToken    string    `json:"session_token"`
	Expiration      time.Time `json:"expiration"`
}

// IsValid reports whether the credentials are usable at the given instant.
func (c *RoleCredentials) IsValid(now time.Time) bool {
	return c.Expiration.After(now)
}

// ExpiringSoonMargin is the window callers use to classify credentials or
// tokens as EXPIRING rather than ACTIVE. The caches never apply it.
const ExpiringSoonMargin = 5 * time.Minute

// SessionStatus classifies a profile's credential state for display.
type SessionStatus int

const (
	StatusInactive SessionStatus = iota
	StatusActive
	StatusExpiring
	StatusExpired
)

func (s SessionStatus) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusExpiring:
		return "EXPIRING"
	case StatusExpired:
		return "EXPIRED"
	default:
		return "INACTIVE"
	}
}

// ClassifyExpiry buckets an expiration instant relative to now.
func ClassifyExpiry(expiresAt, now time.Time) SessionStatus {
	switch {
	case !expiresAt.After(now):
		return StatusExpired
	case expiresAt.Sub(now) < ExpiringSoonMargin:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// ProfileStatus summarizes one credentials-file profile for listings.
type ProfileStatus struct {
	ProfileName    string
	AccountID      string
	RoleName       string
	HasCredentials bool
	Expiration     *time.Time
}

// Status derives the display state from stored metadata.
func (p ProfileStatus) Status(now time.Time) SessionStatus {
	if !p.HasCredentials || p.Expiration == nil {
		return StatusInactive
	}
	return ClassifyExpiry(*p.Expiration, now)
}

// FormatRemaining renders time-to-expiry the way status listings show it.
func FormatRemaining(expiresAt, now time.Time) string {
	if !expiresAt.After(now) {
		return "EXPIRED"
	}
	d := expiresAt.Sub(now)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
