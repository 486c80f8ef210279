/*
Package twitchauth manages OAuth2 user credentials issued by the Twitch
identity service.

# Overview

The package drives the two user authorization protocols Twitch supports and
owns the resulting credential for its lifetime:

  - AuthCodeFlow: the authorization code flow for confidential clients
    (server-side apps holding a client secret, with refresh capability)
  - ImplicitFlow: the implicit flow for public clients (no secret, no
    refresh)

Both flows produce a UserToken, which tracks its own expiry locally and can
refresh itself in place when a client secret and refresh token are held.

# Authorization Code Flow

	flow, err := twitchauth.NewAuthCodeFlow(clientID, clientSecret,
		"https://app.example/cb", []twitchauth.Scope{"chat:read"})
	if err != nil {
		return err
	}

	authURL, err := flow.AuthorizeURL()
	// Redirect the user's browser to authURL. Your callback handler later
	// receives ?code=...&state=...

	code, state, err := twitchauth.ParseCodeCallback(callbackURL)
	if err != nil {
		return err
	}

	client := twitchauth.NewClient()
	token, err := flow.Exchange(ctx, client, state, code)

Exchange verifies the CSRF state before any network call and consumes the
flow; a failed callback cannot be retried against the same nonce.

# Implicit Flow

	flow := twitchauth.NewImplicitFlow(clientID, "https://app.example/cb",
		[]twitchauth.Scope{"chat:read"})

	authURL, csrf, err := flow.AuthorizeURL()
	// Persist csrf if your callback handler lives in another process.
	// Twitch delivers the token in the redirect fragment.

	cb, err := twitchauth.ParseImplicitCallback(callbackURL)
	token, err := flow.Exchange(ctx, client, cb)

# Expiry

A UserToken stores its creation instant and total lifetime and computes the
remaining lifetime locally, so no clock comparison against the provider is
ever needed:

	if token.ExpiresIn() < time.Minute {
		err := token.Refresh(ctx, client)
	}

Tokens issued without a lifetime (legacy client registrations) report
NeverExpires forever.

# Secrets

AccessToken, RefreshToken, ClientSecret and CsrfToken redact themselves in
all default formatting; fmt verbs print a placeholder, never the raw value.
Call Secret() where the raw value is genuinely needed (request construction,
storage).

# Mock issuance

For local development against a mock identity service (such as the bundled
mockid server), Client.MockUserToken issues a token for an arbitrary user
without the consent dance. The call refuses to run against the production
endpoints.
*/
package twitchauth
