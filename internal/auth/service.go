// Package auth orchestrates credential checks, session token issuance and
// the email-OTP verification workflow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/notification"
	"github.com/galvan-ai/accounts/internal/otp"
	"github.com/galvan-ai/accounts/internal/password"
	"github.com/galvan-ai/accounts/internal/token"
)

// Service implements the authentication flows. It returns typed errors
// only; all logging is structured and no credential ever reaches a log line.
type Service struct {
	accounts account.Repository
	otps     otp.Repository
	tokens   *token.Service
	gen      *otp.Generator
	notifier notification.Notifier
	logger   *slog.Logger
	otpTTL   time.Duration
}

// NewService wires the auth service.
func NewService(accounts account.Repository, otps otp.Repository, tokens *token.Service,
	gen *otp.Generator, notifier notification.Notifier, logger *slog.Logger, otpTTL time.Duration) *Service {
	return &Service{
		accounts: accounts,
		otps:     otps,
		tokens:   tokens,
		gen:      gen,
		notifier: notifier,
		logger:   logger,
		otpTTL:   otpTTL,
	}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Role         account.Role
}

// LoginAdmin verifies admin credentials and issues a token pair.
func (s *Service) LoginAdmin(ctx context.Context, email, pass string) (TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return TokenPair{}, err
	}

	admin, err := s.accounts.AdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("look up admin: %w", err)
	}
	if !admin.Active || !password.Verify(pass, admin.PasswordHash) {
		return TokenPair{}, apperrors.ErrInvalidCredentials
	}

	return s.issuePair(admin.ID, account.RoleAdmin)
}

// LoginUser verifies user credentials and issues a token pair. The
// verification check runs strictly after the password comparison so a
// wrong-password attempt learns nothing about verification state.
func (s *Service) LoginUser(ctx context.Context, email, pass string) (TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.accounts.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("look up user: %w", err)
	}
	if !user.Active || !password.Verify(pass, user.PasswordHash) {
		return TokenPair{}, apperrors.ErrInvalidCredentials
	}
	if !user.Verified {
		return TokenPair{}, apperrors.ErrAccountUnverified
	}

	return s.issuePair(user.ID, account.RoleUser)
}

func (s *Service) issuePair(subject string, role account.Role) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(subject, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(subject, role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, Role: role}, nil
}

// Logout revokes the token id. Idempotent; succeeds regardless of prior state.
func (s *Service) Logout(ctx context.Context, jti string) error {
	return s.tokens.Revoke(ctx, jti)
}

// Refresh verifies a refresh-kind token and issues a fresh access token.
// The role is re-derived from the store rather than copied from the
// refresh claims, so privilege changes take effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Kind != token.KindRefresh {
		return "", apperrors.ErrTokenInvalid
	}

	role, err := s.currentRole(ctx, claims.Subject, claims.Role)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(claims.Subject, role)
}

func (s *Service) currentRole(ctx context.Context, subject string, claimed account.Role) (account.Role, error) {
	switch claimed {
	case account.RoleAdmin:
		admin, err := s.accounts.AdminByID(ctx, subject)
		if err != nil || !admin.Active {
			return "", apperrors.ErrInvalidCredentials
		}
		return account.RoleAdmin, nil
	case account.RoleUser:
		user, err := s.accounts.UserByID(ctx, subject)
		if err != nil || !user.Active {
			return "", apperrors.ErrInvalidCredentials
		}
		if !user.Verified {
			return "", apperrors.ErrAccountUnverified
		}
		return account.RoleUser, nil
	}
	return "", apperrors.ErrTokenInvalid
}

// RequestVerification creates an OTP challenge for the email and sends it
// through the notifier. Delivery failures are logged and swallowed; the
// challenge stays valid either way.
func (s *Service) RequestVerification(ctx context.Context, email, firstName, lastName string, purpose otp.Purpose) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if _, err := otp.ParsePurpose(string(purpose)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	code, err := s.gen.Code(otp.DefaultLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	challenge := otp.Challenge{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: s.gen.Now(),
		ExpiresAt: s.gen.Expiry(s.otpTTL),
	}
	if err := s.otps.Create(ctx, challenge); err != nil {
		return fmt.Errorf("store otp challenge: %w", err)
	}

	subject := "Account Verification - Galvan AI"
	body := fmt.Sprintf(`Hello %s %s,

Your account has been created by an administrator. Please verify your email address using the OTP below:

Verification Code: %s

This code will expire in %d minutes.

If you did not request this account, please contact support.

Best regards,
Galvan AI Team`, firstName, lastName, code, int(s.otpTTL.Minutes()))

	if err := s.notifier.Send(ctx, email, subject, body); err != nil {
		s.logger.Warn("verification email delivery failed", "email", email, "error", err)
	}
	return nil
}

// VerifyOTP checks the submitted code against the latest unused challenge
// and, on success, consumes it and marks the account verified atomically.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperrors.ErrInvalidInput
	}

	challenge, err := s.otps.LatestUnused(ctx, email, otp.PurposeAdminVerification)
	if err != nil {
		return err
	}
	if s.gen.Now().After(challenge.ExpiresAt) {
		return apperrors.ErrOtpExpired
	}
	if challenge.Code != code {
		return apperrors.ErrOtpMismatch
	}

	if err := s.otps.Consume(ctx, challenge.ID, email); err != nil {
		return err
	}
	s.logger.Info("account verified", "email", email)
	return nil
}

// CheckSession validates an access token and returns its claims.
func (s *Service) CheckSession(ctx context.Context, tokenStr string) (token.Claims, error) {
	claims, err := s.tokens.Verify(ctx, tokenStr)
	if err != nil {
		return token.Claims{}, err
	}
	if claims.Kind != token.KindAccess {
		return token.Claims{}, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// Profile returns the caller's own user record.
func (s *Service) Profile(ctx context.Context, userID string) (account.User, error) {
	return s.accounts.UserByID(ctx, userID)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.ErrInvalidInput
	}
	return email, nil
}
