package twitchauth

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Token is the capability contract shared by every token kind the package
// can represent: app access tokens carry no user identity, user tokens do.
type Token interface {
	// AccessToken returns the wrapped access token.
	AccessToken() AccessToken
	// ClientID returns the client registration the token was issued to.
	ClientID() ClientID
	// Login returns the owning user's login name, if the token is tied to
	// a user.
	Login() (string, bool)
	// UserID returns the owning user's id, if the token is tied to a user.
	UserID() (string, bool)
	// Scopes returns the permission grants on the token.
	Scopes() []Scope
	// ExpiresIn reports the remaining lifetime, NeverExpires for tokens
	// issued without one.
	ExpiresIn() time.Duration
}

// UserToken is a credential issued on behalf of an end user. It owns all of
// its fields; only Refresh mutates it, and it provides no internal locking.
// Callers sharing a token across goroutines must serialize Refresh against
// readers themselves.
type UserToken struct {
	accessToken  AccessToken
	refreshToken RefreshToken
	clientSecret ClientSecret
	clientID     ClientID
	login        string
	userID       string
	scopes       []Scope
	expiry       Expiry
}

var _ Token = (*UserToken)(nil)

// NewUserToken combines a token exchange response with a separately obtained
// validation result. Scopes and lifetime come from the exchange response;
// the validation result fills them in only when the response omits them. A
// validation that names no owning login or user id fails with ErrNoLogin.
//
// Pass an empty secret for tokens that will never refresh.
func NewUserToken(resp *TokenResponse, val *Validation, secret ClientSecret) (*UserToken, error) {
	if val.Login == "" || val.UserID == "" {
		return nil, ErrNoLogin
	}

	scopes := []Scope(resp.Scope)
	if len(scopes) == 0 {
		scopes = val.Scopes
	}

	return &UserToken{
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		clientSecret: secret,
		clientID:     val.ClientID,
		login:        val.Login,
		userID:       val.UserID,
		scopes:       scopes,
		expiry:       expiryFromSeconds(resp.ExpiresIn),
	}, nil
}

// FromExisting wraps a bare access token by sending it to the Validator
// first. An expired or revoked token fails with ErrNotAuthorized (wrapped).
//
// Pass empty refresh token and secret for tokens that cannot refresh.
func FromExisting(
	ctx context.Context,
	v Validator,
	access AccessToken,
	refresh RefreshToken,
	secret ClientSecret,
) (*UserToken, error) {
	val, err := v.Validate(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if val.Login == "" || val.UserID == "" {
		return nil, ErrNoLogin
	}

	return &UserToken{
		accessToken:  access,
		refreshToken: refresh,
		clientSecret: secret,
		clientID:     val.ClientID,
		login:        val.Login,
		userID:       val.UserID,
		scopes:       val.Scopes,
		expiry:       expiryFromValidation(val.ExpiresIn),
	}, nil
}

// UncheckedToken is caller-asserted state for FromExistingUnchecked, e.g. a
// token restored from storage that was validated in a previous process.
type UncheckedToken struct {
	AccessToken  AccessToken
	RefreshToken RefreshToken
	ClientSecret ClientSecret
	ClientID     ClientID
	Login        string
	UserID       string
	Scopes       []Scope

	// ExpiresIn is the remaining lifetime as the caller knows it. Nil marks
	// the token never-expiring.
	ExpiresIn *time.Duration
}

// FromExistingUnchecked constructs a token with no network call and no
// consistency checking. Asserting a lifetime (or its absence) that the
// provider disagrees with is a caller error the package cannot detect.
func FromExistingUnchecked(t UncheckedToken) *UserToken {
	var expiry Expiry
	if t.ExpiresIn != nil {
		expiry = newExpiry(*t.ExpiresIn)
	} else {
		expiry = neverExpiring()
	}

	return &UserToken{
		accessToken:  t.AccessToken,
		refreshToken: t.RefreshToken,
		clientSecret: t.ClientSecret,
		clientID:     t.ClientID,
		login:        t.Login,
		userID:       t.UserID,
		scopes:       t.Scopes,
		expiry:       expiry,
	}
}

// AccessToken returns the wrapped access token.
func (t *UserToken) AccessToken() AccessToken { return t.accessToken }

// RefreshToken returns the held refresh token, if any.
func (t *UserToken) RefreshToken() (RefreshToken, bool) {
	return t.refreshToken, t.refreshToken != ""
}

// ClientID returns the client registration the token was issued to.
func (t *UserToken) ClientID() ClientID { return t.clientID }

// Login returns the owning user's login name.
func (t *UserToken) Login() (string, bool) { return t.login, t.login != "" }

// UserID returns the owning user's id.
func (t *UserToken) UserID() (string, bool) { return t.userID, t.userID != "" }

// Scopes returns a copy of the token's permission grants.
func (t *UserToken) Scopes() []Scope {
	scopes := make([]Scope, len(t.scopes))
	copy(scopes, t.scopes)
	return scopes
}

// ExpiresIn reports the remaining lifetime, computed locally against elapsed
// time since the token was created or last refreshed. Safe to call from
// concurrent readers.
func (t *UserToken) ExpiresIn() time.Duration { return t.expiry.Remaining() }

// NeverExpires reports whether the token was issued without a lifetime.
func (t *UserToken) NeverExpires() bool { return t.expiry.Never() }

// Expiry returns the token's expiry state, useful for evaluating remaining
// time at an arbitrary instant.
func (t *UserToken) Expiry() Expiry { return t.expiry }

// SetClientSecret attaches a client secret after construction, enabling
// Refresh on tokens restored without one.
func (t *UserToken) SetClientSecret(secret ClientSecret) { t.clientSecret = secret }

// Refresh trades the held refresh token for a new access token and replaces
// the token's access token, lifetime and refresh token in place. The
// provider may rotate the refresh token or stop issuing one; whatever the
// response carries replaces the held value, including nothing.
//
// Login, user id and scopes are not re-validated: refresh is cheaper than
// re-validation, at the cost of staleness if the provider changed them
// server-side.
func (t *UserToken) Refresh(ctx context.Context, ex Exchanger) error {
	if t.clientSecret == "" {
		return ErrNoClientSecret
	}
	if t.refreshToken == "" {
		return ErrNoRefreshToken
	}

	grant := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {t.refreshToken.Secret()},
		"client_id":     {string(t.clientID)},
		"client_secret": {t.clientSecret.Secret()},
	}

	resp, err := ex.Exchange(ctx, grant)
	if err != nil {
		return fmt.Errorf("refresh exchange failed: %w", err)
	}

	t.accessToken = resp.AccessToken
	t.refreshToken = resp.RefreshToken
	t.expiry = expiryFromSeconds(resp.ExpiresIn)

	return nil
}
