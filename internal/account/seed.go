package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/config"
	"github.com/galvan-ai/accounts/internal/password"
)

// EnsureSuperadmin seeds the bootstrap admin if no admin exists with the
// configured email. Safe to run on every startup.
func EnsureSuperadmin(ctx context.Context, repo Repository, cfg config.Config) error {
	_, err := repo.AdminByEmail(ctx, cfg.SuperadminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("look up superadmin: %w", err)
	}

	hash, err := password.Hash(cfg.SuperadminPassword)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	now := time.Now().UTC()
	admin := Admin{
		ID:           uuid.NewString(),
		Email:        cfg.SuperadminEmail,
		PasswordHash: hash,
		FirstName:    cfg.SuperadminFirstName,
		LastName:     cfg.SuperadminLastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateAdmin(ctx, admin); err != nil {
		// Another instance may have seeded concurrently.
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create superadmin: %w", err)
	}
	return nil
}
