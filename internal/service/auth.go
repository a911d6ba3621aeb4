// Package service contains the business logic layer: validation, the
// follow/like mutation protocol, and the denormalized counters. Services
// speak in primitives and model types, never in HTTP, and depend on the
// repository interfaces so tests can swap in in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/auth"
	"github.com/ketsia/linklet/internal/model"
	"github.com/ketsia/linklet/internal/repository"
)

// Defaults applied to freshly registered accounts.
const (
	DefaultProfilePic = "/img/default-avatar.png"
	DefaultBio        = "Hey there! I just joined."
)

// AuthService handles registration, login and token validation.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token so the handler can
// respond in one step. Registration and login both auto-authenticate.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a session token.
//
// Username and email must be unique — case-sensitive exact match against the
// existing records, no normalization. The repository enforces that and names
// the offending field in the conflict error. The password is bcrypt-hashed
// before the record is built; the plaintext never touches the repository.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ProfilePic:   DefaultProfilePic,
		Bio:          DefaultBio,
		Followers:    []string{},
		Following:    []string{},
		PostsCount:   0,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by username-or-email and password.
//
// An unknown identifier is NotFound; a wrong password is the uniform
// InvalidCredentials. The hash comparison failure reason is logged, never
// returned.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	if identifier == "" {
		return nil, apperror.ValidationFailed("identifier", "identifier is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("failed login attempt",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
		)
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken validates a session token and returns its identity claims.
// A thin delegation so callers only need the service package.
func (s *AuthService) ValidateToken(tokenStr string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	return claims, nil
}
