package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/service"
	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
)

// ValidateHandler serves GET /oauth2/validate. The token rides in the
// Authorization header as a bearer credential; the response reports the
// token's owner and grants.
type ValidateHandler struct {
	TokenService *service.TokenService
}

type validateResponse struct {
	ClientID  string   `json:"client_id"`
	Login     string   `json:"login"`
	UserID    string   `json:"user_id"`
	Scopes    []string `json:"scopes"`
	ExpiresIn int64    `json:"expires_in"`
}

func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")

	var raw string
	switch {
	case strings.HasPrefix(auth, "Bearer "):
		raw = strings.TrimPrefix(auth, "Bearer ")
	case strings.HasPrefix(auth, "OAuth "):
		raw = strings.TrimPrefix(auth, "OAuth ")
	default:
		writeError(w, http.StatusUnauthorized, "invalid authorization header")
		return
	}

	result, err := h.TokenService.ValidateAccessToken(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	scopes := result.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	httpx.WriteJSON(w, http.StatusOK, validateResponse{
		ClientID:  result.ClientID,
		Login:     result.Login,
		UserID:    result.UserID,
		Scopes:    scopes,
		ExpiresIn: result.ExpiresIn,
	})
}
