package services

import (
	"context"
	"errors"
	"fmt"

	"forum/backend/models"
	"forum/backend/repository"
	"forum/backend/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned when no user has the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadCredentials covers both unknown emails and wrong passwords so
	// callers cannot tell them apart.
	ErrBadCredentials = errors.New("invalid credentials")
)

// AuthService verifies credentials against stored users and issues tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *utils.TokenService
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// LoadUserByEmail returns the user registered with email.
func (s *AuthService) LoadUserByEmail(ctx context.Context, email string) (*models.User, error) {
	found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user, ok := found.Get()
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Authenticate checks email and password and returns a signed token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.LoadUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
