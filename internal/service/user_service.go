package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-orders/internal/auth"
	"food-orders/internal/model"
	"food-orders/internal/repository"

	"github.com/rs/zerolog"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, time.Time, error)
}

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a user with a hashed password.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("username", req.Username).Msg("username already registered")
		return nil, model.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{Username: req.Username, PasswordHash: hash}

	// The unique index still decides races between concurrent registrations.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return user, nil
}

// Authenticate checks credentials and issues a bearer token.
func (s *userService) Authenticate(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("invalid login attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &model.AuthResult{
		User:      model.UserSummary{ID: user.ID, Username: user.Username},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
