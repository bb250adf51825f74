package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamdive/dreamdive/internal/auth"
	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// AuthService handles registration, login and session attachment.
type AuthService struct {
	store store.Store
}

func NewAuthService(s store.Store) *AuthService { return &AuthService{store: s} }

// Register creates an account and attaches it to the caller's session.
// The returned user carries public fields only; the hash never leaves the
// store layer.
func (s *AuthService) Register(ctx context.Context, token, email, password, name string) (*model.PublicUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.Users().Create(ctx, &model.User{Email: email, PasswordHash: hash, Name: name})
	if err != nil {
		return nil, err
	}

	if err := s.attach(ctx, token, u.ID); err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// Login verifies credentials and attaches the user to the session. Unknown
// email and wrong password collapse into the same generic error.
func (s *AuthService) Login(ctx context.Context, token, email, password string) (*model.PublicUser, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, model.ErrInvalidCredentials
	}

	if err := s.attach(ctx, token, u.ID); err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// Logout destroys the session record. Subsequent requests with the same
// token are treated as unknown.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.store.Sessions().Delete(ctx, token); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return nil
}

// CurrentUser returns the user attached to the session, or
// model.ErrUnauthenticated when the session is guest or unknown.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.PublicUser, error) {
	sess, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUnauthenticated
		}
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}
	u, err := s.store.Users().GetByID(ctx, *sess.UserID)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *AuthService) attach(ctx context.Context, token string, userID int64) error {
	if err := s.store.Sessions().AttachUser(ctx, token, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrInvalidSession
		}
		return err
	}
	return nil
}
