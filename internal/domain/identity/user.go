package identity

import (
	"strings"

	"github.com/worklane/backend/internal/domain/shared"
)

// Role represents a user's role on the platform
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleFreelancer, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// User represents a registered platform user
type User struct {
	shared.BaseEntity
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         Role
}

// NewUser creates a new user with the given role
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "A valid email is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown role")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}
