package repositories

import (
	"context"

	"github.com/finmentor/loan_management_app/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username (login flow).
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
