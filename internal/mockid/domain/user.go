package domain

import "time"

type User struct {
	ID        string
	Login     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
