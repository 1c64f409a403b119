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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Email        string               `bson:"email"`
	Name         string               `bson:"name"`
	PasswordHash string               `bson:"password"`
	Status       string               `bson:"status"`
	Posts        []primitive.ObjectID `bson:"posts"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	postIDs := make([]string, 0, len(d.Posts))
	for _, id := range d.Posts {
		postIDs = append(postIDs, id.Hex())
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Status:       d.Status,
		PostIDs:      postIDs,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Create inserts a new user document. A duplicate email trips the
// unique index and surfaces as a Conflict error.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Status:       user.Status,
		Posts:        []primitive.ObjectID{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewError(domain.KindConflict, "user already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}

	after := options.After
	var doc userDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return doc.toDomain(), nil
}

// AddPost appends the post reference to the user's owned collection.
func (r *UserRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.updatePosts(ctx, userID, postID, "$push")
}

// RemovePost pulls the post reference from the user's owned collection.
func (r *UserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	return r.updatePosts(ctx, userID, postID, "$pull")
}

func (r *UserRepository) updatePosts(ctx context.Context, userID, postID, op string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.NewError(domain.KindNotFound, "user not found")
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post id %q", postID)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{op: bson.M{"posts": pid}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update user posts: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewError(domain.KindNotFound, "user not found")
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := true
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}
