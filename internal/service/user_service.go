package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/ratelimit"
	"github.com/replayhq/replay/internal/repository"
	"go.uber.org/zap"
)

// SignupInput carries a new account request.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	SchoolID *uint
	ClubID   *uint
}

type UserService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) (*UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserService{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Signup registers a regular account. Admin accounts are provisioned out
// of band, never through this endpoint.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         domain.RoleUser,
		SchoolID:     input.SchoolID,
		ClubID:       input.ClubID,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access token. Attempts are
// throttled per email so credential stuffing cannot hammer bcrypt.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if err := s.checkLoginRate(ctx, email); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// checkLoginRate fails open: a broken limiter must not lock everyone out.
func (s *UserService) checkLoginRate(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}

	allowed, err := s.limiter.Allow(ctx, "login:"+email)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: too many login attempts", domain.ErrRateLimited)
	}
	return nil
}
