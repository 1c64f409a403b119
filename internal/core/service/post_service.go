package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
	"github.com/daskousik/blog-api/internal/core/ports"
)

// postsPerPage is the fixed feed page size.
const postsPerPage = 2

// PostService implements post CRUD with ownership enforcement.
type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	images ports.ImageCleaner
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, images ports.ImageCleaner, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, images: images, logger: logger}
}

// Create validates the input, inserts the post, and appends its
// reference to the creator's owned-post collection. The two writes are
// not transactional; a crash in between leaves them inconsistent.
func (s *PostService) Create(ctx context.Context, userID string, input ports.PostInput) (*domain.Post, error) {
	if fields := checkInput(input); len(fields) > 0 {
		return nil, domain.NewInvalidInput("invalid input values", fields)
	}

	creator, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindUnauthorized, "user does not exist")
		}
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		CreatorID: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	if err := s.users.AddPost(ctx, creator.ID, created.ID); err != nil {
		return nil, err
	}

	created.Creator = creator
	s.logger.Info().Str("post_id", created.ID).Str("creator", creator.ID).Msg("post created")
	return created, nil
}

// Get returns one post with its creator populated.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindNotFound, "no post found")
		}
		return nil, err
	}
	return s.populate(ctx, post)
}

// List returns the requested 1-based page, most recent first. Page 0 or
// negative is treated as page 1.
func (s *PostService) List(ctx context.Context, page int) (*ports.Feed, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.List(ctx, (page-1)*postsPerPage, postsPerPage)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if _, err := s.populate(ctx, p); err != nil {
			return nil, err
		}
	}

	return &ports.Feed{Posts: posts, TotalPosts: total}, nil
}

// Update rewrites title and content after revalidating them the same
// way Create does. The stored image reference is only replaced when it
// is a real value rather than the client's "no image" placeholder.
func (s *PostService) Update(ctx context.Context, userID, id string, input ports.PostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindNotFound, "no post found")
		}
		return nil, err
	}
	if _, err := s.populate(ctx, post); err != nil {
		return nil, err
	}
	if post.Creator.ID != userID {
		return nil, domain.NewError(domain.KindForbidden, "not authorized to edit the post")
	}

	if fields := checkInput(input); len(fields) > 0 {
		return nil, domain.NewInvalidInput("invalid input values", fields)
	}

	post.Title = input.Title
	post.Content = input.Content
	if post.ImageURL != domain.NoImagePlaceholder {
		post.ImageURL = input.ImageURL
	}
	post.UpdatedAt = time.Now().UTC()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	updated.Creator = post.Creator
	return updated, nil
}

// Delete removes the post, its image file (best-effort), and the
// reference held in the owner's collection. Ownership is checked on
// the raw stored creator reference.
func (s *PostService) Delete(ctx context.Context, userID, id string) (bool, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return false, domain.NewError(domain.KindNotFound, "no post found")
		}
		return false, err
	}
	if post.CreatorID != userID {
		return false, domain.NewError(domain.KindForbidden, "not authorized to delete the post")
	}

	s.images.Remove(post.ImageURL)

	if err := s.posts.Delete(ctx, id); err != nil {
		return false, err
	}
	if err := s.users.RemovePost(ctx, userID, id); err != nil {
		return false, err
	}

	s.logger.Info().Str("post_id", id).Str("creator", userID).Msg("post deleted")
	return true, nil
}

func (s *PostService) populate(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if post.Creator != nil {
		return post, nil
	}
	creator, err := s.users.FindByID(ctx, post.CreatorID)
	if err != nil {
		return nil, err
	}
	post.Creator = creator
	return post, nil
}
