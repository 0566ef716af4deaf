package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hostelsmart/portal/internal/database"
	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/logger"
)

// ErrInvalidCredentials is returned for unknown users and wrong
// passwords alike, so login responses never reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the lookup collaborator for authentication.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service verifies credentials and issues session tokens.
type Service struct {
	users  UserStore
	tokens *JWTManager
	logger logger.Logger
}

// NewService creates the auth service.
func NewService(users UserStore, tokens *JWTManager, log logger.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: log}
}

// Login verifies the ID and password and returns a signed session token
// with the authenticated user.
func (s *Service) Login(ctx context.Context, id, password string) (string, *domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("failed login attempt", logger.String("user_id", id))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user logged in",
		logger.String("user_id", user.ID),
		logger.String("role", string(user.Role)),
	)

	return token, user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
