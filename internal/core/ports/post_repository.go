package ports

import (
	"context"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// PostRepository defines the interface for post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// FindByID returns the post with its raw creator reference only.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// List returns one page ordered by creation time descending.
	List(ctx context.Context, skip, limit int) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
}
