package otp

import (
	"context"
	"sync"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
)

type memoryRepository struct {
	mu         sync.Mutex
	challenges []Challenge
	accounts   account.Repository
}

// NewMemoryRepository builds an in-memory challenge store for development
// and tests. Consume needs the account repository to flip the verified
// flag the way the Postgres implementation does in one transaction.
func NewMemoryRepository(accounts account.Repository) Repository {
	return &memoryRepository{accounts: accounts}
}

func (r *memoryRepository) Create(_ context.Context, challenge Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges = append(r.challenges, challenge)
	return nil
}

func (r *memoryRepository) LatestUnused(_ context.Context, email string, purpose Purpose) (Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		latest Challenge
		found  bool
	)
	for _, challenge := range r.challenges {
		if challenge.Email != email || challenge.Purpose != purpose || challenge.Used {
			continue
		}
		if !found || challenge.CreatedAt.After(latest.CreatedAt) {
			latest = challenge
			found = true
		}
	}
	if !found {
		return Challenge{}, apperrors.ErrOtpNotFound
	}
	return latest, nil
}

func (r *memoryRepository) Consume(ctx context.Context, challengeID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, challenge := range r.challenges {
		if challenge.ID != challengeID || challenge.Used {
			continue
		}
		if err := r.accounts.SetUserVerified(ctx, email); err != nil {
			return err
		}
		r.challenges[i].Used = true
		return nil
	}
	return apperrors.ErrOtpNotFound
}
