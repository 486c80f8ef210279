package twitchauth

import (
	"fmt"
	"net/url"
)

// ParseCodeCallback extracts the authorization code and state from a
// code-flow redirect URL. A callback carrying a provider error (e.g. the
// user denied authorization) surfaces as *ProviderError.
//
// Example:
//
//	code, state, err := twitchauth.ParseCodeCallback("https://app.example/cb?code=xyz&state=abc")
//	if err != nil {
//		// user denied, or malformed callback
//	}
//	token, err := flow.Exchange(ctx, client, state, code)
func ParseCodeCallback(callbackURL string) (code, state string, err error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse callback URL: %w", err)
	}

	query := u.Query()

	if errorCode := query.Get("error"); errorCode != "" {
		return "", "", &ProviderError{
			Code:        errorCode,
			Description: query.Get("error_description"),
		}
	}

	code = query.Get("code")
	if code == "" {
		return "", "", fmt.Errorf("callback missing authorization code")
	}

	state = query.Get("state")

	return code, state, nil
}

// ParseImplicitCallback extracts an ImplicitCallback from an implicit-flow
// redirect URL. The provider delivers success in the URL fragment
// (#access_token=...&state=...) and failure in the query string
// (?error=...&error_description=...&state=...).
func ParseImplicitCallback(callbackURL string) (ImplicitCallback, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return ImplicitCallback{}, fmt.Errorf("failed to parse callback URL: %w", err)
	}

	query := u.Query()

	cb := ImplicitCallback{
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	if u.Fragment != "" {
		frag, err := url.ParseQuery(u.Fragment)
		if err != nil {
			return ImplicitCallback{}, fmt.Errorf("failed to parse callback fragment: %w", err)
		}
		cb.AccessToken = AccessToken(frag.Get("access_token"))
		if s := frag.Get("state"); s != "" {
			cb.State = s
		}
	}

	return cb, nil
}
