package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/service"
	"github.com/aussiebroadwan/twitchauth/pkg/httpx"
	"github.com/aussiebroadwan/twitchauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger *slog.Logger

	AuthorizeService *service.AuthorizeService
	TokenService     *service.TokenService
	UnitsService     *service.UnitsService
}

func NewRouter(logger *slog.Logger) *Router {
	r := &Router{
		Mux:    http.NewServeMux(),
		logger: logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerUnits()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	authorizeHandler := &AuthorizeHandler{AuthorizeService: r.AuthorizeService}
	r.Mux.Handle("GET /oauth2/authorize",
		httpx.Chain(http.HandlerFunc(authorizeHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Token endpoint covers all grant types; limited per IP + client_id so a
	// noisy client cannot starve the rest.
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(httpx.ModerateLimit, "client_id"),
		),
	)

	validateHandler := &ValidateHandler{TokenService: r.TokenService}
	r.Mux.Handle("GET /oauth2/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUnits() {
	h := &UnitsHandler{UnitsService: r.UnitsService}

	r.Mux.Handle("POST /units/clients",
		httpx.Chain(http.HandlerFunc(h.HandleCreateClient),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /units/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreateUser),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}
