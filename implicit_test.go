package twitchauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImplicitFlowAuthorizeURL(t *testing.T) {
	t.Parallel()

	t.Run("carries the full query and returns the nonce", func(t *testing.T) {
		flow := NewImplicitFlow("C1", "https://app.example/cb", []Scope{"chat:read", "chat:edit"})
		flow.ForceVerify(true)

		u, csrf, err := flow.AuthorizeURL()
		require.NoError(t, err)
		require.NotEmpty(t, csrf.Secret())

		q := u.Query()
		require.Equal(t, "token", q.Get("response_type"))
		require.Equal(t, "C1", q.Get("client_id"))
		require.Equal(t, "https://app.example/cb", q.Get("redirect_uri"))
		require.Equal(t, "chat:read chat:edit", q.Get("scope"))
		require.Equal(t, "true", q.Get("force_verify"))
		require.Equal(t, csrf.Secret(), q.Get("state"))
	})

	t.Run("each call regenerates the nonce", func(t *testing.T) {
		flow := NewImplicitFlow("C1", "https://app.example/cb", nil)

		_, first, err := flow.AuthorizeURL()
		require.NoError(t, err)
		_, second, err := flow.AuthorizeURL()
		require.NoError(t, err)

		require.NotEqual(t, first, second)
		require.False(t, flow.CsrfIsValid(first.Secret()), "old nonce must be invalidated")
		require.True(t, flow.CsrfIsValid(second.Secret()))
	})
}

func TestImplicitFlowCsrfIsValid(t *testing.T) {
	t.Parallel()

	// Before a URL is generated there is no nonce, and unlike the code
	// flow there is no secret to fall back on: everything is rejected.
	flow := NewImplicitFlow("C1", "https://app.example/cb", nil)
	require.False(t, flow.CsrfIsValid(""))
	require.False(t, flow.CsrfIsValid("anything"))

	_, csrf, err := flow.AuthorizeURL()
	require.NoError(t, err)
	require.True(t, flow.CsrfIsValid(csrf.Secret()))
	require.False(t, flow.CsrfIsValid("forged-state"))
}

func TestImplicitFlowExchange(t *testing.T) {
	t.Parallel()

	newFlow := func(t *testing.T) (*ImplicitFlow, CsrfToken) {
		t.Helper()
		flow := NewImplicitFlow("C1", "https://app.example/cb", []Scope{"s1"})
		_, csrf, err := flow.AuthorizeURL()
		require.NoError(t, err)
		return flow, csrf
	}

	t.Run("validates and wraps the delivered token", func(t *testing.T) {
		flow, csrf := newFlow(t)
		p := &fakeProvider{
			validation: &Validation{
				ClientID: "C1", Login: "u", UserID: "42",
				Scopes: []Scope{"s1"}, ExpiresIn: 3600,
			},
		}

		tok, err := flow.Exchange(context.Background(), p, ImplicitCallback{
			State:       csrf.Secret(),
			AccessToken: "AT1",
		})
		require.NoError(t, err)
		require.Equal(t, 1, p.validateCalls)
		require.Equal(t, AccessToken("AT1"), tok.AccessToken())
		require.Equal(t, []Scope{"s1"}, tok.Scopes())

		// Public client: no refresh token and no secret to get one with.
		_, ok := tok.RefreshToken()
		require.False(t, ok)
		require.ErrorIs(t, tok.Refresh(context.Background(), p), ErrNoClientSecret)
	})

	t.Run("state mismatch makes no network request", func(t *testing.T) {
		flow, _ := newFlow(t)
		p := &fakeProvider{}

		_, err := flow.Exchange(context.Background(), p, ImplicitCallback{
			State:       "forged-state",
			AccessToken: "AT1",
		})
		require.ErrorIs(t, err, ErrStateMismatch)
		require.Zero(t, p.validateCalls)
	})

	t.Run("fails closed before AuthorizeURL", func(t *testing.T) {
		flow := NewImplicitFlow("C1", "https://app.example/cb", nil)

		_, err := flow.Exchange(context.Background(), &fakeProvider{}, ImplicitCallback{
			AccessToken: "AT1",
		})
		require.ErrorIs(t, err, ErrStateMismatch)
	})

	t.Run("provider-reported denial surfaces", func(t *testing.T) {
		flow, csrf := newFlow(t)

		_, err := flow.Exchange(context.Background(), &fakeProvider{}, ImplicitCallback{
			State:            csrf.Secret(),
			Error:            "access_denied",
			ErrorDescription: "The user denied you access",
		})

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "access_denied", perr.Code)
		require.Equal(t, "The user denied you access", perr.Description)
	})
}
