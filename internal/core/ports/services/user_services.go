package services

import (
	"context"

	"github.com/finmentor/loan_management_app/internal/core/domain"
	"github.com/finmentor/loan_management_app/internal/dto"
)

// UserSvcFacade is the service boundary for user management and authentication.
type UserSvcFacade interface {
	// RegisterUser creates a new user with a hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
