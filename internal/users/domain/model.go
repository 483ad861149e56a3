package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering with an email that already exists.
var ErrEmailTaken = errors.New("user with this email already exists")

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleClient     Role = "CLIENT"
	RoleFreelancer Role = "FREELANCER"
)

// IsValidRole reports whether s names a known role.
func IsValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleClient, RoleFreelancer:
		return true
	}
	return false
}

// User is the platform account record. PasswordHash never leaves the backend.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Role             Role      `json:"role"`
	ProfilePicture   *string   `json:"profile_picture,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Skills           []string  `json:"skills"`
	HourlyRate       *float64  `json:"hourly_rate,omitempty"`
	IsVerified       bool      `json:"is_verified"`
	VerificationCode *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
