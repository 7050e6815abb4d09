package models

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole maps anything that is not "admin" to the student role.
func ParseRole(role string) Role {
	if Role(role) == RoleAdmin {
		return RoleAdmin
	}
	return RoleStudent
}

type Account struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Points       int       `json:"points" db:"points"`
	Badges       []string  `json:"badges" db:"badges"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (a *Account) IsStudent() bool {
	return a.Role == RoleStudent
}

type LeaderboardEntry struct {
	Rank   int      `json:"rank"`
	Name   string   `json:"name"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}
