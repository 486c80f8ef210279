package mockid_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/twitchauth"
	"github.com/aussiebroadwan/twitchauth/internal/mockid/app"

	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for mock identity provider end-to-end tests. The application
 * is booted in-process against a temp database and served with httptest, then
 * the real client library is driven against it.
 */

// startMockid boots the application and returns its base URL plus the
// endpoint set to point the library at.
func startMockid(t *testing.T) (string, twitchauth.Endpoints) {
	t.Helper()

	cfg := app.Config{
		Issuer:              "mockid-e2e",
		DatabaseFile:        filepath.Join(t.TempDir(), "mockid.db"),
		AccessTTL:           time.Hour,
		RefreshTTL:          24 * time.Hour,
		CodeTTL:             5 * time.Minute,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
	}

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	endpoints := twitchauth.Endpoints{
		AuthorizeURL: srv.URL + "/oauth2/authorize",
		TokenURL:     srv.URL + "/oauth2/token",
		ValidateURL:  srv.URL + "/oauth2/validate",
	}

	return srv.URL, endpoints
}

// registerClient seeds a confidential client and returns its credentials.
func registerClient(t *testing.T, baseURL, name string) (twitchauth.ClientID, twitchauth.ClientSecret) {
	t.Helper()

	var resp struct {
		ClientID string `json:"client_id"`
		Secret   string `json:"secret"`
	}
	postJSON(t, baseURL+"/units/clients", map[string]string{"name": name}, &resp)

	require.NotEmpty(t, resp.ClientID)
	require.NotEmpty(t, resp.Secret)
	return twitchauth.ClientID(resp.ClientID), twitchauth.ClientSecret(resp.Secret)
}

// registerUser seeds a user and returns its id.
func registerUser(t *testing.T, baseURL, login string) string {
	t.Helper()

	var resp struct {
		ID string `json:"id"`
	}
	postJSON(t, baseURL+"/units/users", map[string]string{"login": login}, &resp)

	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func postJSON(t *testing.T, url string, body any, out any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// authorize performs the browser leg: GET the authorize URL (plus the
// mock-only user selector) and capture the redirect back to the client.
func authorize(t *testing.T, authorizeURL *url.URL, userID string) string {
	t.Helper()

	q := authorizeURL.Query()
	q.Set("user_id", userID)
	authorizeURL.RawQuery = q.Encode()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(authorizeURL.String())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.NotEmpty(t, location)
	return location
}
