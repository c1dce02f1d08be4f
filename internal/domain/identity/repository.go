package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindIDsByRole returns the IDs of all users with the given role
	FindIDsByRole(ctx context.Context, role Role) ([]uuid.UUID, error)

	// Create persists a new user
	Create(ctx context.Context, user *User) error

	// ExistsByEmail checks whether a user with the email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
