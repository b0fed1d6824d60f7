// Package admin implements role-gated CRUD over the user table.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/auth"
	"github.com/galvan-ai/accounts/internal/otp"
	"github.com/galvan-ai/accounts/internal/password"
	"github.com/galvan-ai/accounts/internal/token"
)

// Service manages user accounts on behalf of admins. Every method checks
// the caller's claims before touching the store.
type Service struct {
	accounts account.Repository
	auth     *auth.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the admin service.
func NewService(accounts account.Repository, authSvc *auth.Service, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		auth:     authSvc,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateUserInput carries the fields for a new user account.
type CreateUserInput struct {
	Email             string
	Password          string
	FirstName         string
	LastName          string
	MobileNumber      string
	ProfilePictureURL string
}

func requireAdmin(claims token.Claims) error {
	if claims.Role != account.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

// ListUsers returns all users, newest first.
func (s *Service) ListUsers(ctx context.Context, claims token.Claims) ([]account.User, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	return s.accounts.ListUsers(ctx)
}

// CreateUser persists a new unverified user and kicks off email
// verification. The duplicate check happens before any write so a
// conflict leaves no orphan OTP challenge behind.
func (s *Service) CreateUser(ctx context.Context, claims token.Claims, input CreateUserInput) (account.User, error) {
	if err := requireAdmin(claims); err != nil {
		return account.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return account.User{}, apperrors.ErrInvalidInput
	}
	if input.Password == "" || input.FirstName == "" || input.LastName == "" {
		return account.User{}, apperrors.ErrInvalidInput
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return account.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := account.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      hash,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		MobileNumber:      input.MobileNumber,
		ProfilePictureURL: input.ProfilePictureURL,
		Active:            true,
		Verified:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.accounts.CreateUser(ctx, user); err != nil {
		return account.User{}, err
	}

	if err := s.auth.RequestVerification(ctx, email, user.FirstName, user.LastName, otp.PurposeAdminVerification); err != nil {
		// The account exists; verification can be retried.
		s.logger.Warn("request verification failed", "email", email, "error", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "email", email)
	user.PasswordHash = ""
	return user, nil
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, claims token.Claims, id string) (account.User, error) {
	if err := requireAdmin(claims); err != nil {
		return account.User{}, err
	}
	user, err := s.accounts.UserByID(ctx, id)
	if err != nil {
		return account.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	FirstName         *string
	LastName          *string
	MobileNumber      *string
	ProfilePictureURL *string
	Active            *bool
	Verified          *bool
	Password          *string
}

// UpdateUser applies the provided fields, re-hashing the password when a
// non-empty one is supplied.
func (s *Service) UpdateUser(ctx context.Context, claims token.Claims, id string, input UpdateUserInput) (account.User, error) {
	if err := requireAdmin(claims); err != nil {
		return account.User{}, err
	}

	update := account.UserUpdate{
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		MobileNumber:      input.MobileNumber,
		ProfilePictureURL: input.ProfilePictureURL,
		Active:            input.Active,
		Verified:          input.Verified,
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := password.Hash(*input.Password)
		if err != nil {
			return account.User{}, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}

	user, err := s.accounts.UpdateUser(ctx, id, update)
	if err != nil {
		return account.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// DeleteUser removes the user permanently.
func (s *Service) DeleteUser(ctx context.Context, claims token.Claims, id string) error {
	if err := requireAdmin(claims); err != nil {
		return err
	}
	if err := s.accounts.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}
