package twitchauth

import (
	"context"
	"fmt"
	"net/url"
)

type flowState int

const (
	flowCreated flowState = iota
	flowURLGenerated
	flowExchanged
)

// AuthCodeFlow drives the authorization code flow for a confidential client.
// It is a two-phase state machine (AuthorizeURL then Exchange) created once
// per authorization attempt; Exchange consumes it.
//
// A fresh csrf nonce is generated at construction and owned by the flow for
// its lifetime, guaranteeing the nonce embedded in the authorization URL is
// the one checked at exchange.
type AuthCodeFlow struct {
	clientID     ClientID
	clientSecret ClientSecret
	redirectURL  string
	scopes       []Scope
	forceVerify  bool
	csrf         *CsrfToken
	endpoints    Endpoints
	state        flowState
}

// NewAuthCodeFlow creates a flow for one authorization attempt. The redirect
// URL must match the client registration.
func NewAuthCodeFlow(
	clientID ClientID,
	clientSecret ClientSecret,
	redirectURL string,
	scopes []Scope,
) (*AuthCodeFlow, error) {
	csrf, err := NewCsrfToken()
	if err != nil {
		return nil, err
	}

	return &AuthCodeFlow{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		scopes:       scopes,
		csrf:         &csrf,
		endpoints:    DefaultEndpoints(),
	}, nil
}

// ForceVerify makes the authorization prompt re-ask for consent even for
// users who already authorized the client.
func (f *AuthCodeFlow) ForceVerify(b bool) *AuthCodeFlow {
	f.forceVerify = b
	return f
}

// SetCsrfToken replaces the generated nonce with a caller-supplied one.
func (f *AuthCodeFlow) SetCsrfToken(csrf CsrfToken) *AuthCodeFlow {
	f.csrf = &csrf
	return f
}

// DisableCsrf removes csrf protection from the flow entirely. With no stored
// nonce, CsrfIsValid accepts any state; only do this when state is managed
// outside the flow.
func (f *AuthCodeFlow) DisableCsrf() *AuthCodeFlow {
	f.csrf = nil
	return f
}

// UseEndpoints points the flow at a non-production endpoint set.
func (f *AuthCodeFlow) UseEndpoints(e Endpoints) *AuthCodeFlow {
	f.endpoints = e
	return f
}

// AuthorizeURL builds the URL to send the user's browser to. The query
// carries response_type=code, the client id, the redirect URI, the csrf
// nonce as state (unless disabled), the space-joined scope list (if any)
// and force_verify (if enabled).
func (f *AuthCodeFlow) AuthorizeURL() (*url.URL, error) {
	if f.state == flowExchanged {
		return nil, ErrFlowConsumed
	}

	u, err := url.Parse(f.endpoints.AuthorizeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorize endpoint: %w", err)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", string(f.clientID))
	params.Set("redirect_uri", f.redirectURL)
	if f.csrf != nil {
		params.Set("state", f.csrf.Secret())
	}
	if len(f.scopes) > 0 {
		params.Set("scope", joinScopes(f.scopes))
	}
	if f.forceVerify {
		params.Set("force_verify", "true")
	}
	u.RawQuery = params.Encode()

	f.state = flowURLGenerated
	return u, nil
}

// CsrfToken returns the flow's stored nonce, if csrf protection is enabled.
func (f *AuthCodeFlow) CsrfToken() (CsrfToken, bool) {
	if f.csrf == nil {
		return "", false
	}
	return *f.csrf, true
}

// CsrfIsValid reports whether a callback state matches the stored nonce.
// With csrf explicitly disabled it always reports true: the caller opted to
// manage state themselves. This is the opposite default from the implicit
// flow, which has no secret to fall back on and fails closed.
func (f *AuthCodeFlow) CsrfIsValid(state string) bool {
	if f.csrf == nil {
		return true
	}
	return f.csrf.Matches(state)
}

// Exchange takes the (state, code) pair from the redirect callback, verifies
// the state, trades the code for tokens and validates the result, producing
// a UserToken that carries the flow's client secret for future refresh.
//
// The call consumes the flow even when the state does not match; a failed
// callback means starting a new authorization attempt. A state mismatch is
// detected before any network request is made.
func (f *AuthCodeFlow) Exchange(
	ctx context.Context,
	p Provider,
	state, code string,
) (*UserToken, error) {
	switch f.state {
	case flowCreated:
		return nil, ErrAuthorizeURLNotGenerated
	case flowExchanged:
		return nil, ErrFlowConsumed
	}
	f.state = flowExchanged

	if !f.CsrfIsValid(state) {
		return nil, ErrStateMismatch
	}

	grant := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {string(f.clientID)},
		"client_secret": {f.clientSecret.Secret()},
		"code":          {code},
		"redirect_uri":  {f.redirectURL},
	}

	resp, err := p.Exchange(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("authorization code exchange failed: %w", err)
	}

	val, err := p.Validate(ctx, resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	return NewUserToken(resp, val, f.clientSecret)
}
