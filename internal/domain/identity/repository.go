package identity

import (
	"context"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByRole finds all users holding a role
	FindByRole(ctx context.Context, roleID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user, including role assignments
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByUsername checks if a user with the given username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// FindByID finds a role by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by its code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindByIDs finds multiple roles by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)

	// FindAll finds all roles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Role, error)

	// Save creates or updates a role
	Save(ctx context.Context, role *Role) error

	// Delete deletes a role
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts roles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
