package domain

import "time"

// AuthorizationCode represents a code issuance for the authorization code
// flow. The code itself is never stored, only its fingerprint.
type AuthorizationCode struct {
	ID          string
	CodeHash    string
	ClientID    string
	UserID      string
	RedirectURI string
	Scopes      []string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}
