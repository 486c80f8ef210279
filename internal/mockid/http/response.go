package http

import (
	"net/http"

	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
)

// errorBody is the provider error shape: {"status": 400, "message": "..."}.
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	httpx.WriteJSON(w, status, errorBody{Status: status, Message: message})
}

// tokenResponse is the token endpoint success shape.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in"`
	Scope        []string `json:"scope"`
	TokenType    string   `json:"token_type"`
}
