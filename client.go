package twitchauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Exchanger performs a token endpoint round trip for any grant type. The
// core places no retry or timeout logic around it; both belong to the
// transport.
type Exchanger interface {
	Exchange(ctx context.Context, grant url.Values) (*TokenResponse, error)
}

// Validator asks the provider who owns an access token and what it may do.
type Validator interface {
	Validate(ctx context.Context, token AccessToken) (*Validation, error)
}

// Provider is the full collaborator surface a token flow needs.
type Provider interface {
	Exchanger
	Validator
}

// Client is the HTTP implementation of Provider.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. Timeouts and cancellation behavior
// follow whatever the supplied client is configured with.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoints points the client at a non-production endpoint set, such as
// a local mock identity service.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// NewClient creates a client against the production endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoints: DefaultEndpoints(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the endpoint set the client is configured with.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// Exchange POSTs a form-encoded grant to the token endpoint and decodes the
// token response. Non-2xx responses surface as *ProviderError.
func (c *Client) Exchange(ctx context.Context, grant url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoints.TokenURL,
		strings.NewReader(grant.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, parseProviderError(resp.StatusCode, bodyBytes)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &tokenResp, nil
}

// Validate sends the token to the validate endpoint as a bearer credential
// and decodes the provider's view of it. A 401 surfaces as ErrNotAuthorized.
func (c *Client) Validate(ctx context.Context, token AccessToken) (*Validation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.ValidateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Secret())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthorized
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, parseProviderError(resp.StatusCode, bodyBytes)
	}

	var val Validation
	if err := json.NewDecoder(resp.Body).Decode(&val); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &val, nil
}

// MockUserToken issues a token for an arbitrary user via the mock-only
// user_token grant, bypassing the consent dance, then validates and wraps it
// like any other token. It refuses to run against the production endpoints.
func (c *Client) MockUserToken(
	ctx context.Context,
	clientID ClientID,
	clientSecret ClientSecret,
	userID string,
	scopes []Scope,
) (*UserToken, error) {
	if c.endpoints == DefaultEndpoints() {
		return nil, ErrMockEndpoint
	}

	grant := url.Values{
		"grant_type":    {"user_token"},
		"client_id":     {string(clientID)},
		"client_secret": {clientSecret.Secret()},
		"user_id":       {userID},
	}
	if len(scopes) > 0 {
		grant.Set("scope", joinScopes(scopes))
	}

	resp, err := c.Exchange(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("user_token grant failed: %w", err)
	}

	return FromExisting(ctx, c, resp.AccessToken, resp.RefreshToken, clientSecret)
}
