package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/domain"
	"github.com/aussiebroadwan/twitchauth/internal/mockid/store"
	"github.com/aussiebroadwan/twitchauth/pkg/cryptox"
	"github.com/aussiebroadwan/twitchauth/pkg/idx"
)

var ErrAlreadyExists = errors.New("already_exists")

// UnitsService registers the test units (clients and users) the other
// endpoints operate on. A fresh database is empty; tests and local setups
// seed it through here.
type UnitsService struct {
	Store store.Store
}

// RegisteredClient is what client registration returns: the generated id and
// the secret in the clear. The secret is only stored hashed, so this is the
// one chance to capture it.
type RegisteredClient struct {
	ID     string
	Secret string
	Name   string
}

// RegisterClient creates a confidential client with a generated id and secret.
func (s *UnitsService) RegisterClient(ctx context.Context, name string) (*RegisteredClient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	secret, err := cryptox.GenerateSecret()
	if err != nil {
		return nil, err
	}

	hash, err := cryptox.HashSecret(secret)
	if err != nil {
		return nil, err
	}

	client := domain.Client{
		ID:         idx.New().String(),
		Name:       name,
		SecretHash: hash,
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		return nil, err
	}

	return &RegisteredClient{
		ID:     client.ID,
		Secret: secret,
		Name:   client.Name,
	}, nil
}

// RegisterUser creates a user with the given login. The id may be supplied to
// make tests deterministic; a ULID is generated when it is empty.
func (s *UnitsService) RegisterUser(ctx context.Context, id, login string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, ErrInvalidRequest
	}

	if strings.TrimSpace(id) == "" {
		id = idx.New().String()
	}

	user := domain.User{
		ID:    id,
		Login: login,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &user, nil
}
