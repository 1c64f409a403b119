package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daskousik/blog-api/internal/core/domain"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"image_url"`
	Creator   primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		CreatorID: d.Creator.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	creator, err := primitive.ObjectIDFromHex(post.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id %q", post.CreatorID)
	}

	doc := postDoc{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   creator,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.KindNotFound, "no post found")
	}

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.KindNotFound, "no post found")
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, domain.NewError(domain.KindNotFound, "no post found")
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":      post.Title,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"updated_at": post.UpdatedAt,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.NewError(domain.KindNotFound, "no post found")
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.KindNotFound, "no post found")
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.KindNotFound, "no post found")
	}
	return nil
}

// List returns one page ordered by creation time descending.
func (r *PostRepository) List(ctx context.Context, skip, limit int) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*domain.Post, 0, limit)
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates indexes supporting the feed sort and owner lookups.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "creator", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
