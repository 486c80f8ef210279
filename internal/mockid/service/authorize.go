package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/domain"
	"github.com/aussiebroadwan/twitchauth/internal/mockid/store"
	"github.com/aussiebroadwan/twitchauth/pkg/cryptox"
	"github.com/aussiebroadwan/twitchauth/pkg/idx"
)

// AuthorizeService handles the authorize endpoint for both response types.
// There is no consent screen: the mock auto-approves for whichever registered
// user the request names, which is the point of a local identity provider.
type AuthorizeService struct {
	Store   store.Store
	Tokens  *TokenService
	CodeTTL time.Duration
}

// AuthorizeRequest captures the validated inputs of an authorize request.
// UserID or Login selects the user granting access; the mock has no session
// to infer one from.
type AuthorizeRequest struct {
	ResponseType string // "code" or "token"
	ClientID     string
	RedirectURI  string
	Scopes       []string
	State        string

	UserID string
	Login  string
}

// IssueCode validates a response_type=code request and mints a single-use
// authorization code bound to the client and redirect URI.
func (s *AuthorizeService) IssueCode(ctx context.Context, req AuthorizeRequest) (string, error) {
	client, user, err := s.resolve(ctx, req)
	if err != nil {
		return "", err
	}

	code, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	now := time.Now()
	record := domain.AuthorizationCode{
		ID:          idx.New().String(),
		CodeHash:    cryptox.FingerprintToken(code),
		ClientID:    client.ID,
		UserID:      user.ID,
		RedirectURI: req.RedirectURI,
		Scopes:      req.Scopes,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}

	if err := s.Store.AuthorizationCodes().CreateAuthorizationCode(ctx, record); err != nil {
		return "", err
	}

	return code, nil
}

// IssueImplicitToken validates a response_type=token request and mints an
// access token directly. No refresh token exists for the implicit flow.
func (s *AuthorizeService) IssueImplicitToken(ctx context.Context, req AuthorizeRequest) (*domain.TokenPair, error) {
	client, user, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.Tokens.MintAccessToken(user, client, req.Scopes, time.Now())
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   s.Tokens.AccessTTL,
		Scopes:      req.Scopes,
	}, nil
}

func (s *AuthorizeService) resolve(
	ctx context.Context,
	req AuthorizeRequest,
) (domain.Client, domain.User, error) {
	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.RedirectURI) == "" {
		return domain.Client{}, domain.User{}, ErrInvalidRequest
	}

	client, err := s.Store.Clients().GetClientByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, domain.User{}, ErrInvalidClient
		}
		return domain.Client{}, domain.User{}, err
	}

	var user domain.User
	switch {
	case strings.TrimSpace(req.UserID) != "":
		user, err = s.Store.Users().GetUserByID(ctx, req.UserID)
	case strings.TrimSpace(req.Login) != "":
		user, err = s.Store.Users().GetUserByLogin(ctx, req.Login)
	default:
		return domain.Client{}, domain.User{}, ErrInvalidRequest
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, domain.User{}, ErrInvalidRequest
		}
		return domain.Client{}, domain.User{}, err
	}

	return client, user, nil
}
