package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
)

// Service signs and verifies session tokens. Verification is stateless
// except for the revocation-set lookup, which keeps it cheap enough to
// run on every protected request.
type Service struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations RevocationStore
	now         func() time.Time
}

// NewService builds a token service signing with HS256.
func NewService(secret string, accessTTL, refreshTTL time.Duration, revocations RevocationStore) *Service {
	return &Service{
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		revocations: revocations,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueAccess signs a short-lived access token for the subject.
func (s *Service) IssueAccess(subject string, role account.Role) (string, error) {
	return s.issue(subject, role, KindAccess, s.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the subject.
func (s *Service) IssueRefresh(subject string, role account.Role) (string, error) {
	return s.issue(subject, role, KindRefresh, s.refreshTTL)
}

func (s *Service) issue(subject string, role account.Role, kind Kind, ttl time.Duration) (string, error) {
	if _, err := account.ParseRole(string(role)); err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
		Kind: kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, claim shape and the revocation set.
// Failures map to exactly one of ErrTokenExpired, ErrTokenRevoked or
// ErrTokenInvalid so the transport can translate uniformly.
func (s *Service) Verify(ctx context.Context, tokenStr string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperrors.ErrTokenExpired
		}
		return Claims{}, apperrors.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.ID == "" {
		return Claims{}, apperrors.ErrTokenInvalid
	}
	if _, err := account.ParseRole(string(claims.Role)); err != nil {
		return Claims{}, apperrors.ErrTokenInvalid
	}
	if _, err := ParseKind(string(claims.Kind)); err != nil {
		return Claims{}, apperrors.ErrTokenInvalid
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Claims{}, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke adds the jti to the revocation set. Idempotent; the entry lives
// for the refresh-token lifetime, the longest any token stays valid.
func (s *Service) Revoke(ctx context.Context, jti string) error {
	return s.revocations.Revoke(ctx, jti, s.refreshTTL)
}
