package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/daskousik/blog-api/internal/core/domain"
	"github.com/daskousik/blog-api/internal/core/ports"
)

// bcryptCost matches the hashing cost used for all stored passwords.
const bcryptCost = 12

// AuthService implements registration, login and profile operations.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register validates the input, rejects duplicate emails, and persists
// the user with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	if fields := checkInput(input); len(fields) > 0 {
		return nil, domain.NewInvalidInput("invalid input values", fields)
	}

	if existing, err := s.users.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.NewError(domain.KindConflict, "user already exists")
	} else if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Status:       domain.DefaultStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a signed token embedding
// the user id and email. An unknown email yields the same status code
// as a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindUnauthorized, "user not found")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewError(domain.KindUnauthorized, "invalid email or password")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, UserID: user.ID}, nil
}

// Me returns the caller's own record.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateStatus overwrites the caller's free-text status.
func (s *AuthService) UpdateStatus(ctx context.Context, userID, status string) (*domain.User, error) {
	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.UpdateStatus(ctx, userID, status)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"exp":    time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
