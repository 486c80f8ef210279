package twitchauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoLogin is returned when a validation response carries no owning
	// login or user id, so no user token can be built from it.
	ErrNoLogin = errors.New("validation response carries no login or user id")

	// ErrNotAuthorized is returned when the provider rejects an access token
	// as expired, revoked or otherwise invalid.
	ErrNotAuthorized = errors.New("token is not authorized")

	// ErrStateMismatch is returned when a callback's state value does not
	// match the flow's stored csrf nonce. No network request was made.
	ErrStateMismatch = errors.New("csrf state mismatch")

	// ErrNoRefreshToken is returned by Refresh when the token holds no
	// refresh token (implicit-flow tokens never do).
	ErrNoRefreshToken = errors.New("no refresh token held")

	// ErrNoClientSecret is returned by Refresh when the token holds no
	// client secret.
	ErrNoClientSecret = errors.New("no client secret held")

	// ErrAuthorizeURLNotGenerated is returned when Exchange is called before
	// the flow produced an authorization URL.
	ErrAuthorizeURLNotGenerated = errors.New("authorize url not generated")

	// ErrFlowConsumed is returned when a flow is reused after its exchange
	// phase already ran.
	ErrFlowConsumed = errors.New("flow already exchanged")

	// ErrMockEndpoint is returned when mock token issuance is attempted
	// against the production endpoints.
	ErrMockEndpoint = errors.New("mock issuance requires non-production endpoints")
)

// ProviderError is an error reported by the identity provider, either in a
// token endpoint response body or in an error redirect.
type ProviderError struct {
	// StatusCode is the HTTP status of the response, or zero for errors
	// delivered via redirect.
	StatusCode int

	// Code is the provider's error code (e.g. "access_denied").
	Code string

	// Description is the provider's human-readable description, if any.
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error: %s", e.Code)
	}
	return fmt.Sprintf("provider error: %s: %s", e.Code, e.Description)
}

// parseProviderError turns a non-2xx response body into a *ProviderError.
// Twitch reports token endpoint failures as {"status": 400, "message": "..."};
// the RFC 6749 {"error": ..., "error_description": ...} shape is accepted too.
func parseProviderError(statusCode int, body []byte) error {
	var rfc struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &rfc); err == nil && rfc.Error != "" {
		return &ProviderError{
			StatusCode:  statusCode,
			Code:        rfc.Error,
			Description: rfc.ErrorDescription,
		}
	}

	var twitch struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &twitch); err == nil && twitch.Message != "" {
		return &ProviderError{
			StatusCode:  statusCode,
			Code:        http.StatusText(statusCode),
			Description: twitch.Message,
		}
	}

	return &ProviderError{
		StatusCode:  statusCode,
		Code:        http.StatusText(statusCode),
		Description: string(body),
	}
}
