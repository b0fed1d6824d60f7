package account

import (
	"fmt"
	"time"
)

// Role is the closed set of privilege levels carried in session tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a role claim coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a managed end-user account. PasswordHash never leaves the
// account and auth packages.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	MobileNumber      string
	ProfilePictureURL string
	Active            bool
	Verified          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Admin is a management account. Admins are seeded or created out of
// band and do not go through OTP verification.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial update. Nil fields keep their previous
// values; PasswordHash is already derived when it reaches the repository.
type UserUpdate struct {
	FirstName         *string
	LastName          *string
	MobileNumber      *string
	ProfilePictureURL *string
	Active            *bool
	Verified          *bool
	PasswordHash      *string
}
