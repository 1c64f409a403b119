package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
	"github.com/daskousik/blog-api/internal/core/ports"
)

type stubPostRepo struct {
	seq   int
	posts map[string]*domain.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Creator = nil
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.seq++
	clone := clonePost(post)
	clone.ID = fmt.Sprintf("post-%d", r.seq)
	r.posts[clone.ID] = clone
	return clonePost(clone), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "no post found")
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.NewError(domain.KindNotFound, "no post found")
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.NewError(domain.KindNotFound, "no post found")
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, skip, limit int) ([]*domain.Post, error) {
	all := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, clonePost(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubPostRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.posts)), nil
}

type stubCleaner struct {
	removed []string
}

func (c *stubCleaner) Remove(path string) {
	c.removed = append(c.removed, path)
}

type postFixture struct {
	svc     *PostService
	posts   *stubPostRepo
	users   *stubUserRepo
	cleaner *stubCleaner
	owner   *domain.User
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	users := newStubUserRepo()
	owner, err := users.Create(context.Background(), &domain.User{
		Email: "owner@example.com", Name: "Owner", Status: domain.DefaultStatus,
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	posts := newStubPostRepo()
	cleaner := &stubCleaner{}
	return &postFixture{
		svc:     NewPostService(posts, users, cleaner, zerolog.Nop()),
		posts:   posts,
		users:   users,
		cleaner: cleaner,
		owner:   owner,
	}
}

func validInput() ports.PostInput {
	return ports.PostInput{Title: "Go blog", Content: "some content", ImageURL: "images/a.png"}
}

func TestPostService_Create_Success(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), f.owner.ID, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.ID == "" || post.Creator == nil || post.Creator.ID != f.owner.ID {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Fatalf("expected server-assigned timestamps")
	}

	// bidirectional update: the reference lands in the owner's collection
	stored, _ := f.users.FindByID(context.Background(), f.owner.ID)
	if len(stored.PostIDs) != 1 || stored.PostIDs[0] != post.ID {
		t.Fatalf("post reference not appended to owner: %+v", stored.PostIDs)
	}
}

func TestPostService_Create_ValidationAccumulates(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner.ID, ports.PostInput{
		Title:   "abc",
		Content: "hi",
	})
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if len(de.Data) != 2 {
		t.Fatalf("expected both violations reported, got %+v", de.Data)
	}
}

func TestPostService_Create_TitleLengthBoundary(t *testing.T) {
	f := newPostFixture(t)

	// 5 characters: rejected with a title message
	_, err := f.svc.Create(context.Background(), f.owner.ID, ports.PostInput{
		Title: "12345", Content: "valid content",
	})
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput for 5-char title, got %v", err)
	}
	if len(de.Data) != 1 || de.Data[0].Field != "title" {
		t.Fatalf("expected a title field error, got %+v", de.Data)
	}

	// 6 characters: accepted
	if _, err := f.svc.Create(context.Background(), f.owner.ID, ports.PostInput{
		Title: "123456", Content: "valid content",
	}); err != nil {
		t.Fatalf("expected 6-char title to pass, got %v", err)
	}
}

func TestPostService_Create_CreatorGone(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Create(context.Background(), "user-999", validInput())
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("expected Unauthorized for missing creator, got %v", err)
	}
}

func TestPostService_List_Pagination(t *testing.T) {
	f := newPostFixture(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		f.posts.posts[fmt.Sprintf("seed-%d", i)] = &domain.Post{
			ID:        fmt.Sprintf("seed-%d", i),
			Title:     fmt.Sprintf("post %d", i),
			Content:   "seeded content",
			CreatorID: f.owner.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}

	feed, err := f.svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if feed.TotalPosts != 5 {
		t.Fatalf("expected total 5, got %d", feed.TotalPosts)
	}
	// page 2 with size 2 holds the 3rd and 4th most recent
	if len(feed.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(feed.Posts))
	}
	if feed.Posts[0].ID != "seed-3" || feed.Posts[1].ID != "seed-2" {
		t.Fatalf("wrong page contents: %s, %s", feed.Posts[0].ID, feed.Posts[1].ID)
	}
	for _, p := range feed.Posts {
		if p.Creator == nil || p.Creator.ID != f.owner.ID {
			t.Fatalf("creator not populated on %s", p.ID)
		}
	}
}

func TestPostService_List_DefaultsToFirstPage(t *testing.T) {
	f := newPostFixture(t)

	if _, err := f.svc.Create(context.Background(), f.owner.ID, validInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	feed, err := f.svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(feed.Posts) != 1 {
		t.Fatalf("expected the unset page to behave as page 1, got %d posts", len(feed.Posts))
	}
}

func TestPostService_Get_RoundTrip(t *testing.T) {
	f := newPostFixture(t)

	created, err := f.svc.Create(context.Background(), f.owner.ID, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != created.Title || got.Content != created.Content || got.ImageURL != created.ImageURL {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}
	if got.Creator == nil || got.Creator.ID != f.owner.ID {
		t.Fatalf("creator not populated")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("timestamps changed on read: %v vs %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestPostService_Get_NotFound(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Get(context.Background(), "post-404")
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindNotFound || de.Status() != 404 {
		t.Fatalf("expected NotFound/404, got %v", err)
	}
}

func TestPostService_Update_Success(t *testing.T) {
	f := newPostFixture(t)

	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	updated, err := f.svc.Update(context.Background(), f.owner.ID, created.ID, ports.PostInput{
		Title: "Updated title", Content: "updated content", ImageURL: "images/b.png",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Updated title" || updated.Content != "updated content" {
		t.Fatalf("fields not overwritten: %+v", updated)
	}
	if updated.ImageURL != "images/b.png" {
		t.Fatalf("real image reference should be replaced, got %q", updated.ImageURL)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("modification timestamp moved backwards")
	}
}

func TestPostService_Update_KeepsImagePlaceholder(t *testing.T) {
	f := newPostFixture(t)

	// a post whose stored image is the client's "no image" marker
	seeded, _ := f.posts.Create(context.Background(), &domain.Post{
		Title: "placeholder", Content: "placeholder content",
		ImageURL: domain.NoImagePlaceholder, CreatorID: f.owner.ID,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	})

	updated, err := f.svc.Update(context.Background(), f.owner.ID, seeded.ID, ports.PostInput{
		Title: "placeholder", Content: "placeholder content", ImageURL: "images/new.png",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ImageURL != domain.NoImagePlaceholder {
		t.Fatalf("placeholder must not be overwritten, got %q", updated.ImageURL)
	}
}

func TestPostService_Update_Forbidden(t *testing.T) {
	f := newPostFixture(t)

	other, _ := f.users.Create(context.Background(), &domain.User{Email: "other@example.com", Name: "Other"})
	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	_, err := f.svc.Update(context.Background(), other.ID, created.ID, validInput())
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindForbidden || de.Status() != 403 {
		t.Fatalf("expected Forbidden/403, got %v", err)
	}
}

func TestPostService_Update_Revalidates(t *testing.T) {
	f := newPostFixture(t)

	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	_, err := f.svc.Update(context.Background(), f.owner.ID, created.ID, ports.PostInput{
		Title: "short", Content: "valid content",
	})
	de, ok := err.(*domain.Error)
	if !ok || de.Kind != domain.KindInvalidInput {
		t.Fatalf("expected the update path to validate title/content like create, got %v", err)
	}
	if len(de.Data) != 1 || de.Data[0].Field != "title" {
		t.Fatalf("expected a title field error, got %+v", de.Data)
	}
}

func TestPostService_Delete_Success(t *testing.T) {
	f := newPostFixture(t)

	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	ok, err := f.svc.Delete(context.Background(), f.owner.ID, created.ID)
	if err != nil || !ok {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := f.posts.FindByID(context.Background(), created.ID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("post record still present")
	}
	if len(f.cleaner.removed) != 1 || f.cleaner.removed[0] != "images/a.png" {
		t.Fatalf("image file not cleaned up: %+v", f.cleaner.removed)
	}
	stored, _ := f.users.FindByID(context.Background(), f.owner.ID)
	if len(stored.PostIDs) != 0 {
		t.Fatalf("post reference still on owner: %+v", stored.PostIDs)
	}
}

func TestPostService_Delete_ForbiddenLeavesEverything(t *testing.T) {
	f := newPostFixture(t)

	other, _ := f.users.Create(context.Background(), &domain.User{Email: "other@example.com", Name: "Other"})
	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	_, err := f.svc.Delete(context.Background(), other.ID, created.ID)
	if domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	if _, err := f.posts.FindByID(context.Background(), created.ID); err != nil {
		t.Fatalf("post must be untouched: %v", err)
	}
	if len(f.cleaner.removed) != 0 {
		t.Fatalf("file must be untouched, removed: %+v", f.cleaner.removed)
	}
}

// ownership on delete is checked against the raw stored reference, not
// a populated creator record; both must agree for the same caller.
func TestPostService_Delete_OwnerComparedOnRawReference(t *testing.T) {
	f := newPostFixture(t)

	created, _ := f.svc.Create(context.Background(), f.owner.ID, validInput())

	raw, _ := f.posts.FindByID(context.Background(), created.ID)
	if raw.Creator != nil {
		t.Fatalf("repository must return the unpopulated reference")
	}
	if raw.CreatorID != f.owner.ID {
		t.Fatalf("raw reference %q does not serialize to the owner id %q", raw.CreatorID, f.owner.ID)
	}

	if ok, err := f.svc.Delete(context.Background(), f.owner.ID, created.ID); err != nil || !ok {
		t.Fatalf("owner delete via raw reference failed: %v", err)
	}
}

func TestPostService_Delete_NotFound(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Delete(context.Background(), f.owner.ID, "post-404")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
