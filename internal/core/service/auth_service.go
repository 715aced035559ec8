package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
	"github.com/sweetshop/sweet-shop-api/internal/core/token"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration and login.
type AuthService struct {
	repo  ports.AuthRepository
	codec *token.Codec
}

func NewAuthService(repo ports.AuthRepository, codec *token.Codec) *AuthService {
	return &AuthService{repo: repo, codec: codec}
}

// Register validates input, stores a bcrypt hash of the password, and returns
// a minted token with the created account. New accounts always get the
// customer role; promotion to admin is an operator action outside this API.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return "", nil, fmt.Errorf("%w: username must be at least 3 characters", domain.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return "", nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < 6 {
		return "", nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return "", nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique email index backs this up; the pre-check above only provides
	// a friendlier fast path.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	tkn, err := s.codec.Issue(created.ID, created.Role)
	if err != nil {
		return "", nil, err
	}
	return tkn, created, nil
}

// Login verifies credentials and mints a token. Lookup misses and password
// mismatches both surface as ErrInvalidCredentials so the response never
// reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}
