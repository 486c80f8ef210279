package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/domain"
	"github.com/aussiebroadwan/twitchauth/internal/mockid/service"
	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
	"github.com/aussiebroadwan/twitchauth/pkg/slogx"
)

// TokenHandler serves POST /oauth2/token. Accepts
// application/x-www-form-urlencoded per the OAuth2 framework; failures use
// the provider error shape {"status": ..., "message": ...}.
type TokenHandler struct {
	TokenService *service.TokenService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		writeError(w, http.StatusBadRequest, "content type must be application/x-www-form-urlencoded")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}

	switch r.Form.Get("grant_type") {
	case "authorization_code":
		h.handleAuthorizationCodeGrant(w, r, r.Form)
	case "refresh_token":
		h.handleRefreshGrant(w, r, r.Form)
	case "user_token":
		h.handleUserTokenGrant(w, r, r.Form)
	default:
		writeError(w, http.StatusBadRequest, "unsupported grant type")
	}
}

func (h *TokenHandler) handleAuthorizationCodeGrant(
	w http.ResponseWriter,
	r *http.Request,
	form url.Values,
) {
	ctx := r.Context()

	clientID := strings.TrimSpace(form.Get("client_id"))
	clientSecret := form.Get("client_secret")
	code := strings.TrimSpace(form.Get("code"))
	redirectURI := strings.TrimSpace(form.Get("redirect_uri"))

	if clientID == "" || code == "" || redirectURI == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter")
		return
	}

	pair, err := h.TokenService.ExchangeAuthorizationCode(ctx, clientID, clientSecret, code, redirectURI)
	if err != nil {
		h.writeGrantError(w, r, err)
		return
	}

	h.writePair(w, pair)
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()

	clientID := strings.TrimSpace(form.Get("client_id"))
	clientSecret := form.Get("client_secret")
	refresh := form.Get("refresh_token")

	if clientID == "" || refresh == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter")
		return
	}

	pair, err := h.TokenService.ExchangeRefreshToken(ctx, clientID, clientSecret, refresh)
	if err != nil {
		h.writeGrantError(w, r, err)
		return
	}

	h.writePair(w, pair)
}

func (h *TokenHandler) handleUserTokenGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()

	clientID := strings.TrimSpace(form.Get("client_id"))
	clientSecret := form.Get("client_secret")
	userID := strings.TrimSpace(form.Get("user_id"))
	scopes := httpx.ParseSpaceDelimitedFields(form.Get("scope"))

	if clientID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter")
		return
	}

	pair, err := h.TokenService.ExchangeUserToken(ctx, clientID, clientSecret, userID, scopes)
	if err != nil {
		h.writeGrantError(w, r, err)
		return
	}

	h.writePair(w, pair)
}

func (h *TokenHandler) writeGrantError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidClient):
		writeError(w, http.StatusForbidden, "invalid client secret")
	case errors.Is(err, service.ErrInvalidGrant):
		writeError(w, http.StatusBadRequest, "invalid grant")
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "missing required parameter")
	default:
		log.Error("token grant failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *TokenHandler) writePair(w http.ResponseWriter, pair *domain.TokenPair) {
	scope := pair.Scopes
	if scope == nil {
		scope = []string{}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		Scope:        scope,
		TokenType:    "bearer",
	})
}
