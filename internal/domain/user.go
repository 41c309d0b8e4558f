package domain

import (
	"slices"
	"time"
)

// Role names known to the system. Every user holds RoleUser; RoleAdmin grants
// the cross-user override operations.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2id encoded
	Roles        []string
	CreatedAt    time.Time
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// Public is the wire representation of a user: everything except the
// password hash.
type Public struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"userName"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the credential material for responses.
func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
	}
}
