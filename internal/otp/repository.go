package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/galvan-ai/accounts/internal/apperrors"
)

// Repository persists challenges.
type Repository interface {
	Create(ctx context.Context, challenge Challenge) error
	// LatestUnused returns the most recently created unused challenge
	// for the email and purpose, or apperrors.ErrOtpNotFound.
	LatestUnused(ctx context.Context, email string, purpose Purpose) (Challenge, error)
	// Consume marks the challenge used and sets the matching user
	// verified, atomically.
	Consume(ctx context.Context, challengeID, email string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed challenge repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new challenge row.
func (r *PostgresRepository) Create(ctx context.Context, challenge Challenge) error {
	challengeID, err := uuid.Parse(challenge.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO email_otps (id, email, otp_code, purpose,
        is_used, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		challengeID, challenge.Email, challenge.Code, string(challenge.Purpose),
		challenge.Used, challenge.CreatedAt.UTC(), challenge.ExpiresAt.UTC())
	return err
}

// LatestUnused fetches the newest unused challenge for (email, purpose).
func (r *PostgresRepository) LatestUnused(ctx context.Context, email string, purpose Purpose) (Challenge, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, otp_code, purpose, is_used, created_at, expires_at
        FROM email_otps WHERE email = $1 AND purpose = $2 AND is_used = FALSE
        ORDER BY created_at DESC LIMIT 1`, email, string(purpose))

	var (
		id         uuid.UUID
		rawPurpose string
		createdAt  time.Time
		expiresAt  time.Time
		challenge  Challenge
	)
	if err := row.Scan(&id, &challenge.Email, &challenge.Code, &rawPurpose,
		&challenge.Used, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, apperrors.ErrOtpNotFound
		}
		return Challenge{}, err
	}
	parsed, err := ParsePurpose(rawPurpose)
	if err != nil {
		return Challenge{}, err
	}
	challenge.ID = id.String()
	challenge.Purpose = parsed
	challenge.CreatedAt = createdAt.UTC()
	challenge.ExpiresAt = expiresAt.UTC()
	return challenge, nil
}

// Consume marks the challenge used and flips the user's verified flag in
// a single transaction so a crash between the two writes cannot leave a
// consumed code with an unverified account.
func (r *PostgresRepository) Consume(ctx context.Context, challengeID, email string) error {
	id, err := uuid.Parse(challengeID)
	if err != nil {
		return apperrors.ErrOtpNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE email_otps SET is_used = TRUE
        WHERE id = $1 AND is_used = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrOtpNotFound
	}

	cmd, err = tx.Exec(ctx, `UPDATE users SET is_verified = TRUE, updated_at = $1
        WHERE email = $2`, time.Now().UTC(), email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return tx.Commit(ctx)
}
