package ports

import (
	"context"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.User, error)
	// AddPost appends a post reference to the user's owned collection.
	AddPost(ctx context.Context, userID, postID string) error
	// RemovePost pulls a post reference from the user's owned collection.
	RemovePost(ctx context.Context, userID, postID string) error
}
