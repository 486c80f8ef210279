package twitchauth

import (
	"context"
	"fmt"
	"net/url"
)

// ImplicitFlow drives the implicit flow for a public client: no client
// secret, and the resulting token can never refresh.
//
// Unlike AuthCodeFlow, no nonce exists until AuthorizeURL runs, and each
// call regenerates it — reusing the flow invalidates any callback issued
// for a prior nonce.
type ImplicitFlow struct {
	clientID    ClientID
	redirectURL string
	scopes      []Scope
	forceVerify bool
	csrf        *CsrfToken
	endpoints   Endpoints
}

// NewImplicitFlow creates a flow for one authorization attempt.
func NewImplicitFlow(clientID ClientID, redirectURL string, scopes []Scope) *ImplicitFlow {
	return &ImplicitFlow{
		clientID:    clientID,
		redirectURL: redirectURL,
		scopes:      scopes,
		endpoints:   DefaultEndpoints(),
	}
}

// ForceVerify makes the authorization prompt re-ask for consent even for
// users who already authorized the client.
func (f *ImplicitFlow) ForceVerify(b bool) *ImplicitFlow {
	f.forceVerify = b
	return f
}

// UseEndpoints points the flow at a non-production endpoint set.
func (f *ImplicitFlow) UseEndpoints(e Endpoints) *ImplicitFlow {
	f.endpoints = e
	return f
}

// AuthorizeURL generates a fresh csrf nonce, stores it, and builds the URL
// to send the user's browser to with response_type=token. The nonce is also
// returned so callers whose callback handler lives elsewhere can persist it;
// there is no client secret to re-derive trust from.
func (f *ImplicitFlow) AuthorizeURL() (*url.URL, CsrfToken, error) {
	csrf, err := NewCsrfToken()
	if err != nil {
		return nil, "", err
	}
	f.csrf = &csrf

	u, err := url.Parse(f.endpoints.AuthorizeURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse authorize endpoint: %w", err)
	}

	params := url.Values{}
	params.Set("response_type", "token")
	params.Set("client_id", string(f.clientID))
	params.Set("redirect_uri", f.redirectURL)
	params.Set("state", csrf.Secret())
	if len(f.scopes) > 0 {
		params.Set("scope", joinScopes(f.scopes))
	}
	if f.forceVerify {
		params.Set("force_verify", "true")
	}
	u.RawQuery = params.Encode()

	return u, csrf, nil
}

// CsrfIsValid reports whether a callback state matches the stored nonce.
// Before AuthorizeURL has generated one it always reports false: a public
// client cannot safely skip this check, so the flow fails closed.
func (f *ImplicitFlow) CsrfIsValid(state string) bool {
	if f.csrf == nil {
		return false
	}
	return f.csrf.Matches(state)
}

// ImplicitCallback carries the two mutually exclusive outcomes the provider
// delivers on the redirect: success carries an access token and nothing
// else, failure carries an error code and description and no token.
type ImplicitCallback struct {
	State            string
	AccessToken      AccessToken
	Error            string
	ErrorDescription string
}

// Exchange checks the callback state against the stored nonce, surfaces a
// provider-reported error if the authorization failed, and otherwise
// validates and wraps the delivered token. The state check runs before
// anything else; a mismatch (or a flow that never generated a URL) fails
// with ErrStateMismatch.
func (f *ImplicitFlow) Exchange(
	ctx context.Context,
	v Validator,
	cb ImplicitCallback,
) (*UserToken, error) {
	if !f.CsrfIsValid(cb.State) {
		return nil, ErrStateMismatch
	}

	if cb.AccessToken == "" {
		return nil, &ProviderError{
			Code:        cb.Error,
			Description: cb.ErrorDescription,
		}
	}

	// No refresh token and no secret: implicit tokens never refresh.
	return FromExisting(ctx, v, cb.AccessToken, "", "")
}
