package ports

import (
	"context"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string `validate:"required,min=6"`
	Content  string `validate:"required,min=6"`
	ImageURL string
}

// Feed is one page of posts plus the total count across all pages.
type Feed struct {
	Posts      []*domain.Post
	TotalPosts int64
}

type PostService interface {
	Create(ctx context.Context, userID string, input PostInput) (*domain.Post, error)
	// Get returns the post with its creator populated.
	Get(ctx context.Context, id string) (*domain.Post, error)
	// List returns the given 1-based page of the feed, most recent first.
	List(ctx context.Context, page int) (*Feed, error)
	Update(ctx context.Context, userID, id string, input PostInput) (*domain.Post, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// ImageCleaner removes a stored image file. Implementations must be
// best-effort: failures are logged, never returned.
type ImageCleaner interface {
	Remove(path string)
}
