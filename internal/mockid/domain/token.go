package domain

import "time"

// TokenPair is what the token endpoint returns: the short-lived access token
// (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Scopes       []string
}

// RefreshToken models the stored refresh token record.
type RefreshToken struct {
	ID        string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ClientID  string
	UserID    string
	Scopes    []string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
