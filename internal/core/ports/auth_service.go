package ports

import (
	"context"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// UserInput carries registration data.
type UserInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5"`
	Name     string `validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token  string
	UserID string
}

type AuthService interface {
	Register(ctx context.Context, input UserInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Me returns the full record of the authenticated user.
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateStatus(ctx context.Context, userID, status string) (*domain.User, error)
}
