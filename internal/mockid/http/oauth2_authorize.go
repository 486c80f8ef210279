package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/service"
	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
	"github.com/aussiebroadwan/twitchauth/pkg/slogx"
)

// AuthorizeHandler serves GET /oauth2/authorize. There is no login or
// consent page: the request names the granting user (user_id or login) and
// the handler redirects straight back to the client.
type AuthorizeHandler struct {
	AuthorizeService *service.AuthorizeService
}

func (h *AuthorizeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	query := r.URL.Query()

	redirectURI := strings.TrimSpace(query.Get("redirect_uri"))
	redirect, err := url.Parse(redirectURI)
	if redirectURI == "" || err != nil {
		writeError(w, http.StatusBadRequest, "missing or malformed redirect_uri")
		return
	}

	req := service.AuthorizeRequest{
		ResponseType: query.Get("response_type"),
		ClientID:     strings.TrimSpace(query.Get("client_id")),
		RedirectURI:  redirectURI,
		Scopes:       httpx.ParseSpaceDelimitedFields(query.Get("scope")),
		State:        query.Get("state"),
		UserID:       strings.TrimSpace(query.Get("user_id")),
		Login:        strings.TrimSpace(query.Get("login")),
	}

	switch req.ResponseType {
	case "code":
		code, err := h.AuthorizeService.IssueCode(ctx, req)
		if err != nil {
			h.redirectError(w, r, redirect, req.State, err, log)
			return
		}

		q := redirect.Query()
		q.Set("code", code)
		if req.State != "" {
			q.Set("state", req.State)
		}
		redirect.RawQuery = q.Encode()
		http.Redirect(w, r, redirect.String(), http.StatusFound)

	case "token":
		pair, err := h.AuthorizeService.IssueImplicitToken(ctx, req)
		if err != nil {
			h.redirectError(w, r, redirect, req.State, err, log)
			return
		}

		frag := url.Values{}
		frag.Set("access_token", pair.AccessToken)
		frag.Set("token_type", "bearer")
		if len(pair.Scopes) > 0 {
			frag.Set("scope", strings.Join(pair.Scopes, " "))
		}
		if req.State != "" {
			frag.Set("state", req.State)
		}
		redirect.Fragment = ""
		http.Redirect(w, r, redirect.String()+"#"+frag.Encode(), http.StatusFound)

	default:
		h.redirectError(w, r, redirect, req.State,
			service.ErrUnsupportedGrantType, log)
	}
}

// redirectError delivers failures on the redirect URI query string, the way
// providers report a denied or malformed authorization.
func (h *AuthorizeHandler) redirectError(
	w http.ResponseWriter,
	r *http.Request,
	redirect *url.URL,
	state string,
	err error,
	log *slog.Logger,
) {
	var code, description string
	switch {
	case errors.Is(err, service.ErrInvalidClient):
		code, description = "invalid_client", "client not registered"
	case errors.Is(err, service.ErrInvalidRequest):
		code, description = "invalid_request", "missing or unknown request parameter"
	case errors.Is(err, service.ErrUnsupportedGrantType):
		code, description = "unsupported_response_type", "response_type must be code or token"
	default:
		log.Error("authorize failed", "err", err)
		code, description = "server_error", "internal error"
	}

	q := redirect.Query()
	q.Set("error", code)
	q.Set("error_description", description)
	if state != "" {
		q.Set("state", state)
	}
	redirect.RawQuery = q.Encode()
	http.Redirect(w, r, redirect.String(), http.StatusFound)
}
