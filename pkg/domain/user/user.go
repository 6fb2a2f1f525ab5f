// Package user holds the User entity and its role rules.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
)

// Roles carried in the role claim of issued tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a bank customer or administrator.
// The password field always holds a bcrypt hash and is never serialized.
type User struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	NationalID string    `json:"national_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Profile groups the descriptive fields supplied at registration or edit time.
type Profile struct {
	FirstName  string
	LastName   string
	NationalID string
	Email      string
}

// New creates a User from an already hashed password.
func New(
	username, hashedPassword string,
	profile Profile,
	role string,
) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrValidation)
	}
	if hashedPassword == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	now := time.Now().UTC()
	u := &User{
		Username:  username,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.ApplyProfile(profile)
	return u, nil
}

// ApplyProfile overwrites the descriptive fields.
func (u *User) ApplyProfile(p Profile) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.NationalID = p.NationalID
	u.Email = p.Email
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
