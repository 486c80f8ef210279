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
	"github.com/aussiebroadwan/twitchauth/pkg/slogx"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrInvalidAccessToken   = errors.New("invalid_access_token")
)

// accessClaims are the claims minted into access tokens. The custom fields
// carry what the validate endpoint reports back: the owning client, the
// user's login and the granted scopes.
type accessClaims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"cid"`
	Login    string   `json:"login"`
	Scopes   []string `json:"scp"`
}

// TokenService implements the token endpoint grants and stateless access
// token validation. Access tokens are HS256 JWTs signed with SigningKey;
// refresh tokens are opaque and persisted by fingerprint.
type TokenService struct {
	Store      store.Store
	SigningKey []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ValidationResult is what the validate endpoint reports about a live token.
type ValidationResult struct {
	ClientID  string
	Login     string
	UserID    string
	Scopes    []string
	ExpiresIn int64 // seconds; 0 means the token does not expire
}

// ExchangeAuthorizationCode implements the authorization_code grant. The code
// is single-use: redemption and refresh token creation happen in one
// transaction so a replayed code cannot race a second token out.
func (s *TokenService) ExchangeAuthorizationCode(
	ctx context.Context,
	clientID, clientSecret, code, redirectURI string,
) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	redirectURI = strings.TrimSpace(redirectURI)
	if code == "" || redirectURI == "" {
		return nil, ErrInvalidRequest
	}

	codeHash := cryptox.FingerprintToken(code)

	var result *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		authCode, err := tx.AuthorizationCodes().GetAuthorizationCodeByHash(ctx, codeHash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}

		if authCode.ClientID != client.ID {
			return ErrInvalidClient
		}
		if authCode.RedirectURI != redirectURI {
			return ErrInvalidGrant
		}
		if authCode.UsedAt != nil || now.After(authCode.ExpiresAt) {
			return ErrInvalidGrant
		}

		user, err := tx.Users().GetUserByID(ctx, authCode.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}

		if err := tx.AuthorizationCodes().MarkAuthorizationCodeUsed(ctx, authCode.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}

		result, err = s.issuePair(ctx, tx, user, client, authCode.Scopes, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("authorization code redeemed", "client_id", client.ID)
	return result, nil
}

// ExchangeRefreshToken implements the refresh_token grant with rotation: the
// presented token is revoked and a fresh one issued atomically.
func (s *TokenService) ExchangeRefreshToken(
	ctx context.Context,
	clientID, clientSecret, refreshOpaque string,
) (*domain.TokenPair, error) {
	now := time.Now()

	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(refreshOpaque) == "" {
		return nil, ErrInvalidRequest
	}

	fp := cryptox.FingerprintToken(refreshOpaque)

	var result *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}

		if rt.Revoked || now.After(rt.ExpiresAt) {
			return ErrInvalidGrant
		}
		if rt.ClientID != client.ID {
			return ErrInvalidClient
		}

		user, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}

		result, err = s.issuePair(ctx, tx, user, client, rt.Scopes, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExchangeUserToken implements the mock-only user_token grant: it mints a
// token for an arbitrary registered user without any consent step. The grant
// only exists here; production providers reject it.
func (s *TokenService) ExchangeUserToken(
	ctx context.Context,
	clientID, clientSecret, userID string,
	scopes []string,
) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidRequest
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	var result *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		result, err = s.issuePair(ctx, tx, user, client, scopes, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("user_token minted", "client_id", client.ID, "user_id", user.ID)
	return result, nil
}

// ValidateAccessToken verifies the HS256 signature and expiry of an access
// token and reports the claims the way the validate endpoint exposes them.
// No database lookup happens; the token is self-contained.
func (s *TokenService) ValidateAccessToken(_ context.Context, raw string) (*ValidationResult, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return s.SigningKey, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidAccessToken
	}

	var expiresIn int64
	if claims.ExpiresAt != nil {
		expiresIn = int64(time.Until(claims.ExpiresAt.Time).Seconds())
		if expiresIn < 0 {
			return nil, ErrInvalidAccessToken
		}
	}

	return &ValidationResult{
		ClientID:  claims.ClientID,
		Login:     claims.Login,
		UserID:    claims.Subject,
		Scopes:    claims.Scopes,
		ExpiresIn: expiresIn,
	}, nil
}

// MintAccessToken signs an access token for a user/client pair directly,
// without a refresh token. The implicit flow uses this.
func (s *TokenService) MintAccessToken(
	user domain.User,
	client domain.Client,
	scopes []string,
	now time.Time,
) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{client.ID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
			ID:        idx.New().String(),
		},
		ClientID: client.ID,
		Login:    user.Login,
		Scopes:   scopes,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.SigningKey)
}

func (s *TokenService) authenticateClient(
	ctx context.Context,
	clientID, clientSecret string,
) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(clientID) == "" {
		return domain.Client{}, ErrInvalidRequest
	}

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, err
	}

	if clientSecret == "" || cryptox.VerifySecret(clientSecret, client.SecretHash) != nil {
		l.Info("client authentication failed", "client_id", clientID)
		return domain.Client{}, ErrInvalidClient
	}

	return client, nil
}

// issuePair mints an access token and persists a fresh refresh token for it.
func (s *TokenService) issuePair(
	ctx context.Context,
	tx store.Tx,
	user domain.User,
	client domain.Client,
	scopes []string,
	now time.Time,
) (*domain.TokenPair, error) {
	accessToken, err := s.MintAccessToken(user, client, scopes, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	refresh := domain.RefreshToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ClientID:  client.ID,
		UserID:    user.ID,
		Scopes:    scopes,
		ExpiresAt: now.Add(s.RefreshTTL),
	}

	if err := tx.RefreshTokens().CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresIn:    s.AccessTTL,
		Scopes:       scopes,
	}, nil
}
