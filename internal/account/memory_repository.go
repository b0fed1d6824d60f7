package account

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/galvan-ai/accounts/internal/apperrors"
)

type memoryRepository struct {
	mu     sync.RWMutex
	users  map[string]User  // keyed by email
	admins map[string]Admin // keyed by email
}

// NewMemoryRepository builds an in-memory account store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		users:  make(map[string]User),
		admins: make(map[string]Admin),
	}
}

func (r *memoryRepository) CreateUser(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return apperrors.ErrDuplicateEmail
	}
	r.users[user.Email] = user
	return nil
}

func (r *memoryRepository) UserByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return User{}, apperrors.ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) UserByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, apperrors.ErrNotFound
}

func (r *memoryRepository) ListUsers(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memoryRepository) UpdateUser(_ context.Context, id string, update UserUpdate) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, user := range r.users {
		if user.ID == id {
			applyUpdate(&user, update)
			user.UpdatedAt = time.Now().UTC()
			r.users[email] = user
			return user, nil
		}
	}
	return User{}, apperrors.ErrNotFound
}

func (r *memoryRepository) DeleteUser(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, user := range r.users {
		if user.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *memoryRepository) SetUserVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Verified = true
	user.UpdatedAt = time.Now().UTC()
	r.users[email] = user
	return nil
}

func (r *memoryRepository) CreateAdmin(_ context.Context, admin Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.admins[admin.Email]; exists {
		return apperrors.ErrDuplicateEmail
	}
	r.admins[admin.Email] = admin
	return nil
}

func (r *memoryRepository) AdminByEmail(_ context.Context, email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[email]
	if !ok {
		return Admin{}, apperrors.ErrNotFound
	}
	return admin, nil
}

func (r *memoryRepository) AdminByID(_ context.Context, id string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if admin.ID == id {
			return admin, nil
		}
	}
	return Admin{}, apperrors.ErrNotFound
}
