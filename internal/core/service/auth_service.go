package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/auth"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/port"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// AuthService handles registration and login, minting bearer tokens for the
// endpoints that require an account.
type AuthService struct {
	repo   port.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(repo port.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if anyBlank(name, email) {
		return domain.User{}, ErrMissingFields
	}
	if len(password) < 6 {
		return domain.User{}, ErrWeakPassword
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return domain.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(*user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("mint token: %w", err)
	}
	return token, *user, nil
}

// UserByID resolves the account behind a verified token's subject.
func (s *AuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
