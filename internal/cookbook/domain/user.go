package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id encoded, never the raw password
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
