package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/galvan-ai/accounts/internal/apperrors"
)

// Repository persists user and admin accounts. Emails are unique per
// account kind; violations surface as apperrors.ErrDuplicateEmail.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id string) error
	SetUserVerified(ctx context.Context, email string) error

	CreateAdmin(ctx context.Context, admin Admin) error
	AdminByEmail(ctx context.Context, email string) (Admin, error)
	AdminByID(ctx context.Context, id string) (Admin, error)
}

const userColumns = `id, email, password_hash, first_name, last_name, mobile_number,
        profile_picture_url, is_active, is_verified, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateUser inserts a new user row.
func (r *PostgresRepository) CreateUser(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		userID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.MobileNumber, user.ProfilePictureURL, user.Active, user.Verified,
		user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return mapUniqueViolation(err)
}

// UserByEmail fetches a user by normalized email.
func (r *PostgresRepository) UserByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UserByID fetches a user by id.
func (r *PostgresRepository) UserByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, apperrors.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// ListUsers returns all users, newest first.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser applies the provided fields and returns the stored row. The
// row is locked for the duration of the read-modify-write so concurrent
// partial updates cannot drop each other's fields.
func (r *PostgresRepository) UpdateUser(ctx context.Context, id string, update UserUpdate) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, apperrors.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	user, err := scanUser(row)
	if err != nil {
		return User{}, err
	}
	applyUpdate(&user, update)
	user.UpdatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `UPDATE users SET first_name = $1, last_name = $2,
        mobile_number = $3, profile_picture_url = $4, is_active = $5, is_verified = $6,
        password_hash = $7, updated_at = $8 WHERE id = $9`,
		user.FirstName, user.LastName, user.MobileNumber, user.ProfilePictureURL,
		user.Active, user.Verified, user.PasswordHash, user.UpdatedAt, userID)
	if err != nil {
		return User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// DeleteUser removes the user permanently.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetUserVerified flips the verified flag for the given email.
func (r *PostgresRepository) SetUserVerified(ctx context.Context, email string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET is_verified = TRUE, updated_at = $1
        WHERE email = $2`, time.Now().UTC(), email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreateAdmin inserts a new admin row.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, admin Admin) error {
	adminID, err := uuid.Parse(admin.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO admins (id, email, password_hash, first_name,
        last_name, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		adminID, admin.Email, admin.PasswordHash, admin.FirstName, admin.LastName,
		admin.Active, admin.CreatedAt.UTC(), admin.UpdatedAt.UTC())
	return mapUniqueViolation(err)
}

// AdminByEmail fetches an admin by normalized email.
func (r *PostgresRepository) AdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, first_name, last_name,
        is_active, created_at, updated_at FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

// AdminByID fetches an admin by id.
func (r *PostgresRepository) AdminByID(ctx context.Context, id string) (Admin, error) {
	adminID, err := uuid.Parse(id)
	if err != nil {
		return Admin{}, apperrors.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, first_name, last_name,
        is_active, created_at, updated_at FROM admins WHERE id = $1`, adminID)
	return scanAdmin(row)
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		user      User
	)
	if err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.MobileNumber, &user.ProfilePictureURL,
		&user.Active, &user.Verified, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperrors.ErrNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}

func scanAdmin(row pgx.Row) (Admin, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		admin     Admin
	)
	if err := row.Scan(&id, &admin.Email, &admin.PasswordHash, &admin.FirstName,
		&admin.LastName, &admin.Active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, apperrors.ErrNotFound
		}
		return Admin{}, err
	}
	admin.ID = id.String()
	admin.CreatedAt = createdAt.UTC()
	admin.UpdatedAt = updatedAt.UTC()
	return admin, nil
}

func applyUpdate(user *User, update UserUpdate) {
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.MobileNumber != nil {
		user.MobileNumber = *update.MobileNumber
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = *update.ProfilePictureURL
	}
	if update.Active != nil {
		user.Active = *update.Active
	}
	if update.Verified != nil {
		user.Verified = *update.Verified
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperrors.ErrDuplicateEmail
	}
	return err
}
