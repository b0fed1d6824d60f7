package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/auth"
	"github.com/galvan-ai/accounts/internal/logging"
	"github.com/galvan-ai/accounts/internal/notification"
	"github.com/galvan-ai/accounts/internal/otp"
	"github.com/galvan-ai/accounts/internal/password"
	"github.com/galvan-ai/accounts/internal/token"
)

func adminClaims() token.Claims {
	return token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1", ID: "jti-1"},
		Role:             account.RoleAdmin,
		Kind:             token.KindAccess,
	}
}

func userClaims() token.Claims {
	return token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ID: "jti-2"},
		Role:             account.RoleUser,
		Kind:             token.KindAccess,
	}
}

func newTestService(t *testing.T) (*Service, account.Repository, otp.Repository) {
	t.Helper()
	accounts := account.NewMemoryRepository()
	otps := otp.NewMemoryRepository(accounts)
	tokens := token.NewService("test-secret", 30*time.Minute, 7*24*time.Hour, token.NewMemoryRevocations())
	logger := logging.Discard()
	authSvc := auth.NewService(accounts, otps, tokens, otp.NewGenerator(),
		notification.NewLogNotifier(logger), logger, 30*time.Minute)
	return NewService(accounts, authSvc, logger), accounts, otps
}

func TestRequireAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListUsers(ctx, userClaims()); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for list, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, userClaims(), CreateUserInput{}); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for create, got %v", err)
	}
	if _, err := svc.GetUser(ctx, userClaims(), "some-id"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for get, got %v", err)
	}
	if _, err := svc.UpdateUser(ctx, userClaims(), "some-id", UpdateUserInput{}); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for update, got %v", err)
	}
	if err := svc.DeleteUser(ctx, userClaims(), "some-id"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for delete, got %v", err)
	}
}

func TestCreateUserIssuesVerificationChallenge(t *testing.T) {
	svc, accounts, otps := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, adminClaims(), CreateUserInput{
		Email:     "Alice@Example.com",
		Password:  "s3cret-Pa55",
		FirstName: "Alice",
		LastName:  "Example",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", created.Email)
	}
	if created.Verified {
		t.Fatalf("expected new user to start unverified")
	}
	if created.PasswordHash != "" {
		t.Fatalf("created user must not carry the password hash")
	}

	stored, err := accounts.UserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "s3cret-Pa55" {
		t.Fatalf("expected stored password to be hashed")
	}
	if !password.Verify("s3cret-Pa55", stored.PasswordHash) {
		t.Fatalf("stored hash does not verify the password")
	}

	challenge, err := otps.LatestUnused(ctx, "alice@example.com", otp.PurposeAdminVerification)
	if err != nil {
		t.Fatalf("expected a verification challenge: %v", err)
	}
	if len(challenge.Code) != otp.DefaultLength {
		t.Fatalf("expected %d-digit code, got %q", otp.DefaultLength, challenge.Code)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _, otps := newTestService(t)
	ctx := context.Background()

	input := CreateUserInput{
		Email:     "alice@example.com",
		Password:  "s3cret-Pa55",
		FirstName: "Alice",
		LastName:  "Example",
	}
	if _, err := svc.CreateUser(ctx, adminClaims(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	first, err := otps.LatestUnused(ctx, "alice@example.com", otp.PurposeAdminVerification)
	if err != nil {
		t.Fatalf("first challenge: %v", err)
	}

	if _, err := svc.CreateUser(ctx, adminClaims(), input); !errors.Is(err, apperrors.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// The failed create must not have written a second challenge.
	latest, err := otps.LatestUnused(ctx, "alice@example.com", otp.PurposeAdminVerification)
	if err != nil {
		t.Fatalf("challenge after duplicate: %v", err)
	}
	if latest.ID != first.ID {
		t.Fatalf("duplicate create left an orphan challenge")
	}
}

func TestCreateUserValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateUserInput{
		{Email: "no-at-sign", Password: "x", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "x", FirstName: "", LastName: "B"},
		{Email: "a@b.com", Password: "x", FirstName: "A", LastName: ""},
	}
	for i, input := range cases {
		if _, err := svc.CreateUser(ctx, adminClaims(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestListUsersNewestFirst(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		user := account.User{
			ID:           email,
			Email:        email,
			PasswordHash: "digest",
			FirstName:    "U",
			LastName:     "Ser",
			Active:       true,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := accounts.CreateUser(ctx, user); err != nil {
			t.Fatalf("seed %s: %v", email, err)
		}
	}

	users, err := svc.ListUsers(ctx, adminClaims())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Email != "third@example.com" || users[2].Email != "first@example.com" {
		t.Fatalf("expected newest-first ordering, got %s .. %s", users[0].Email, users[2].Email)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetUser(context.Background(), adminClaims(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, adminClaims(), CreateUserInput{
		Email:        "alice@example.com",
		Password:     "s3cret-Pa55",
		FirstName:    "Alice",
		LastName:     "Example",
		MobileNumber: "+1555000111",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newFirst := "Alicia"
	updated, err := svc.UpdateUser(ctx, adminClaims(), created.ID, UpdateUserInput{FirstName: &newFirst})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Alicia" {
		t.Fatalf("expected first name update, got %s", updated.FirstName)
	}
	// Omitted fields keep their previous values.
	if updated.LastName != "Example" || updated.MobileNumber != "+1555000111" {
		t.Fatalf("partial update touched omitted fields: %+v", updated)
	}

	// An empty password pointer must not re-hash.
	before, _ := accounts.UserByID(ctx, created.ID)
	empty := ""
	if _, err := svc.UpdateUser(ctx, adminClaims(), created.ID, UpdateUserInput{Password: &empty}); err != nil {
		t.Fatalf("update with empty password: %v", err)
	}
	after, _ := accounts.UserByID(ctx, created.ID)
	if before.PasswordHash != after.PasswordHash {
		t.Fatalf("empty password must leave the hash untouched")
	}

	// A non-empty password is re-hashed.
	newPass := "n3w-Pa55word"
	if _, err := svc.UpdateUser(ctx, adminClaims(), created.ID, UpdateUserInput{Password: &newPass}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	final, _ := accounts.UserByID(ctx, created.ID)
	if !password.Verify("n3w-Pa55word", final.PasswordHash) {
		t.Fatalf("expected new password to verify")
	}

	if _, err := svc.UpdateUser(ctx, adminClaims(), "missing", UpdateUserInput{FirstName: &newFirst}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, adminClaims(), CreateUserInput{
		Email:     "alice@example.com",
		Password:  "s3cret-Pa55",
		FirstName: "Alice",
		LastName:  "Example",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteUser(ctx, adminClaims(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(ctx, adminClaims(), created.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, adminClaims(), created.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
