package model

import "time"

// Roles stored in users.role.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User mirrors a row of the `users` table.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
