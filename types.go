package twitchauth

import (
	"encoding/json"
	"strings"
)

// ClientID identifies an OAuth2 client registration. Not a secret.
type ClientID string

// Scope names a single permission grant on a token, e.g. "chat:read".
// A token holds an ordered list; order carries no meaning and duplicates
// are not rejected.
type Scope string

// joinScopes renders a scope list in the space-delimited wire form.
func joinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// AccessToken is an OAuth2 access token. Default formatting redacts the
// value; call Secret to obtain it.
type AccessToken string

func (t AccessToken) String() string { return "AccessToken(redacted)" }

func (t AccessToken) GoString() string { return "AccessToken(redacted)" }

// Secret returns the raw token value.
func (t AccessToken) Secret() string { return string(t) }

// RefreshToken is an OAuth2 refresh token. Default formatting redacts the
// value; call Secret to obtain it.
type RefreshToken string

func (t RefreshToken) String() string { return "RefreshToken(redacted)" }

func (t RefreshToken) GoString() string { return "RefreshToken(redacted)" }

// Secret returns the raw token value.
func (t RefreshToken) Secret() string { return string(t) }

// ClientSecret is the secret of a confidential client registration. Default
// formatting redacts the value; call Secret to obtain it.
type ClientSecret string

func (s ClientSecret) String() string { return "ClientSecret(redacted)" }

func (s ClientSecret) GoString() string { return "ClientSecret(redacted)" }

// Secret returns the raw secret value.
func (s ClientSecret) Secret() string { return string(s) }

// CsrfToken is the random state nonce round-tripped through an authorization
// redirect. Default formatting redacts the value; call Secret to obtain it.
type CsrfToken string

func (t CsrfToken) String() string { return "CsrfToken(redacted)" }

func (t CsrfToken) GoString() string { return "CsrfToken(redacted)" }

// Secret returns the raw nonce value.
func (t CsrfToken) Secret() string { return string(t) }

// ScopeList decodes the token endpoint's scope field, which arrives either
// as a JSON array or as a single space-delimited string.
type ScopeList []Scope

func (l *ScopeList) UnmarshalJSON(data []byte) error {
	var arr []Scope
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}

	fields := strings.Fields(joined)
	scopes := make([]Scope, len(fields))
	for i, f := range fields {
		scopes[i] = Scope(f)
	}
	*l = scopes
	return nil
}

// TokenResponse is the token endpoint's JSON response for any grant type.
type TokenResponse struct {
	AccessToken  AccessToken  `json:"access_token"`
	RefreshToken RefreshToken `json:"refresh_token,omitempty"`

	// ExpiresIn is the token lifetime in seconds. Absence means the token
	// never expires.
	ExpiresIn *int64 `json:"expires_in,omitempty"`

	Scope     ScopeList `json:"scope,omitempty"`
	TokenType string    `json:"token_type,omitempty"`
}

// Validation is the validate endpoint's JSON response: the provider-confirmed
// view of who owns an access token and what it may do.
type Validation struct {
	ClientID ClientID `json:"client_id"`

	// Login and UserID are empty for tokens not tied to a user.
	Login  string `json:"login,omitempty"`
	UserID string `json:"user_id,omitempty"`

	Scopes []Scope `json:"scopes"`

	// ExpiresIn is the remaining lifetime in seconds as the provider sees
	// it. Zero marks a token that never expires.
	ExpiresIn int64 `json:"expires_in"`
}
