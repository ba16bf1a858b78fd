package user

import (
	"context"
	"fmt"
	"time"

	userRepo "directory101/database/repository/user"
	"directory101/models"
	"directory101/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 7 * 24 * time.Hour

// UserService defines the business logic for account operations.
type UserService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, u models.User) (*models.User, error)
	// Authenticate verifies credentials and issues a fresh session token.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// GetByID retrieves an account by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// RevokeToken invalidates the account's current session token.
	RevokeToken(ctx context.Context, id string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// Register validates input, hashes the password, sets IDs and timestamps,
// and creates a new account. The returned user excludes sensitive fields.
func (s *DefaultUserService) Register(ctx context.Context, u models.User) (*models.User, error) {
	if u.Email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if u.Password == "" {
		return nil, fmt.Errorf("user password is required")
	}

	existing, err := s.Repo.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", u.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hashed)
	u.Password = ""

	u.ID = uuid.New().String()
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.Repo.Create(ctx, &u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.PasswordHash = ""
	return &u, nil
}

// Authenticate verifies the email and password, then issues a JWT whose
// hash is stored for later revocation checks.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Repo.UpdateTokenHash(ctx, u.ID, utils.HashToken(token)); err != nil {
		return nil, fmt.Errorf("failed to store token hash: %w", err)
	}

	u.Token = token
	u.PasswordHash = ""
	u.TokenHash = ""
	return u, nil
}

// GetByID retrieves an account with sensitive fields cleared.
func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s not found", id)
	}
	u.PasswordHash = ""
	u.TokenHash = ""
	return u, nil
}

// RevokeToken invalidates the account's current session token.
func (s *DefaultUserService) RevokeToken(ctx context.Context, id string) error {
	return s.Repo.UpdateTokenHash(ctx, id, "")
}
