package twitchauth

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	t.Run("default formatting never prints the raw value", func(t *testing.T) {
		secrets := map[string]fmt.Stringer{
			"access token":  AccessToken("super-secret-access"),
			"refresh token": RefreshToken("super-secret-refresh"),
			"client secret": ClientSecret("super-secret-client"),
			"csrf token":    CsrfToken("super-secret-state"),
		}

		for name, s := range secrets {
			for _, verb := range []string{"%v", "%s", "%+v", "%#v"} {
				out := fmt.Sprintf(verb, s)
				require.NotContains(t, out, "super-secret", "%s leaked via %s", name, verb)
				require.Contains(t, out, "redacted")
			}
		}
	})

	t.Run("Secret reveals the raw value", func(t *testing.T) {
		require.Equal(t, "super-secret-access", AccessToken("super-secret-access").Secret())
		require.Equal(t, "super-secret-refresh", RefreshToken("super-secret-refresh").Secret())
		require.Equal(t, "super-secret-client", ClientSecret("super-secret-client").Secret())
		require.Equal(t, "super-secret-state", CsrfToken("super-secret-state").Secret())
	})

	t.Run("redaction survives embedding in structs", func(t *testing.T) {
		type holder struct {
			Token AccessToken
		}
		out := fmt.Sprintf("%+v", holder{Token: "super-secret-access"})
		require.NotContains(t, out, "super-secret")
	})
}

func TestScopeListUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("array form", func(t *testing.T) {
		var l ScopeList
		require.NoError(t, json.Unmarshal([]byte(`["chat:read","chat:edit"]`), &l))
		require.Equal(t, ScopeList{"chat:read", "chat:edit"}, l)
	})

	t.Run("space-joined string form", func(t *testing.T) {
		var l ScopeList
		require.NoError(t, json.Unmarshal([]byte(`"chat:read chat:edit"`), &l))
		require.Equal(t, ScopeList{"chat:read", "chat:edit"}, l)
	})

	t.Run("empty string yields no scopes", func(t *testing.T) {
		var l ScopeList
		require.NoError(t, json.Unmarshal([]byte(`""`), &l))
		require.Empty(t, l)
	})

	t.Run("rejects other JSON types", func(t *testing.T) {
		var l ScopeList
		require.Error(t, json.Unmarshal([]byte(`42`), &l))
	})
}

func TestTokenResponseDecoding(t *testing.T) {
	t.Parallel()

	t.Run("full response", func(t *testing.T) {
		raw := `{"access_token":"rfx2uswqe8l4g1mkagrvg5tv0ks3","expires_in":14124,` +
			`"refresh_token":"5b93chm6hdve3mycz05zfzatkfd","scope":["channel:moderate","chat:edit"],` +
			`"token_type":"bearer"}`

		var resp TokenResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &resp))
		require.Equal(t, AccessToken("rfx2uswqe8l4g1mkagrvg5tv0ks3"), resp.AccessToken)
		require.Equal(t, RefreshToken("5b93chm6hdve3mycz05zfzatkfd"), resp.RefreshToken)
		require.NotNil(t, resp.ExpiresIn)
		require.EqualValues(t, 14124, *resp.ExpiresIn)
		require.Equal(t, ScopeList{"channel:moderate", "chat:edit"}, resp.Scope)
	})

	t.Run("missing expires_in stays nil", func(t *testing.T) {
		var resp TokenResponse
		require.NoError(t, json.Unmarshal([]byte(`{"access_token":"abc"}`), &resp))
		require.Nil(t, resp.ExpiresIn)
	})
}

func TestJoinScopes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "read:x write:y", joinScopes([]Scope{"read:x", "write:y"}))
	require.Equal(t, "", joinScopes(nil))
}
