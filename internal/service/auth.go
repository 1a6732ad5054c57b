// Package service implements the brain server's use cases on top of a store.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/domain"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/id"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/validation"
)

// Messages returned to clients by AuthService.
const (
	MsgUsernameTaken      = "User already exists with this username"
	MsgInvalidCredentials = "Invalid username or password"
	MsgInvalidToken       = "Invalid token"
	msgServerError        = "Server error"
)

// AuthService handles signup, signin and session token verification.
type AuthService struct {
	store  store.Store
	hasher auth.PasswordHasher
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	hasher auth.PasswordHasher,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Credentials is the signup and signin request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninResult carries the issued session token.
type SigninResult struct {
	Token string
	User  *domain.User
}

// Signup registers a new user.
func (s *AuthService) Signup(ctx context.Context, req Credentials) (*domain.User, error) {
	if err := validation.CheckCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	// Fail fast before paying for the hash. CreateUser still enforces
	// uniqueness for concurrent signups.
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, domainerrors.AlreadyExists(MsgUsernameTaken)
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("lookup user: %w", err))
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("hash password: %w", err))
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("generate user ID: %w", err))
	}

	user := &domain.User{
		Base:         domain.Base{ID: userID},
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, domainerrors.AlreadyExists(MsgUsernameTaken)
		}
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("create user: %w", err))
	}

	if s.logger != nil {
		s.logger.Info("User signed up",
			"user_id", user.ID,
			"username", user.Username,
		)
	}

	return user, nil
}

// Signin checks credentials and issues a session token.
// Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Signin(ctx context.Context, req Credentials) (*SigninResult, error) {
	if err := validation.CheckCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
		}
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("lookup user: %w", err))
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		if s.logger != nil {
			s.logger.Info("Signin rejected", "user_id", user.ID)
		}
		return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("issue token: %w", err))
	}

	if s.logger != nil {
		s.logger.Info("User signed in", "user_id", user.ID)
	}

	return &SigninResult{Token: token, User: user}, nil
}

// VerifyToken resolves a session token to its user.
// A bad signature, a malformed payload, a missing claim and a deleted user
// all produce the same UNAUTHORIZED error.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized(MsgInvalidToken).WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized(MsgInvalidToken).WithCause(err)
		}
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("lookup user: %w", err))
	}

	return user, nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, domainerrors.Internal(msgServerError).WithCause(err)
	}
	return user, nil
}
