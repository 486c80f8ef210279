package domain

import "time"

type Client struct {
	ID         string
	Name       string
	SecretHash string // argon2 encoded
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
