package userRepo

import (
	"context"

	"directory101/models"
)

// UserRepository defines methods for account data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email, or nil when none exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByTokenHash retrieves the user whose stored token hash matches.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, u *models.User) error
	// UpdateTokenHash stores the hash of the user's current session token.
	// An empty hash revokes the session.
	UpdateTokenHash(ctx context.Context, id, tokenHash string) error
}
