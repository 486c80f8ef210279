package twitchauth

import (
	"fmt"

	"github.com/aussiebroadwan/twitchauth/pkg/cryptox"
)

// NewCsrfToken generates a fresh state nonce from a cryptographically secure
// random source.
func NewCsrfToken() (CsrfToken, error) {
	s, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return CsrfToken(s), nil
}

// Matches compares the nonce against a callback-supplied state value by
// exact string equality.
func (t CsrfToken) Matches(state string) bool {
	return string(t) == state
}
