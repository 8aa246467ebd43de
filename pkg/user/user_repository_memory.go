package user

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"context"
	"sort"
	"sync"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewMemoryUserRepository is a process-local store for tests and local runs.
// It hands out copies so callers never share tree nodes with the stored document.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*entities.User)}
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	email = NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepository) FindByLocationID(ctx context.Context, locationID string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		for _, loc := range u.Storage {
			if loc.ID == locationID {
				return u.Clone(), nil
			}
		}
	}
	return nil, domain.ErrLocationNotFound
}

func (r *memoryUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Clone())
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entities.User) error {
	user.Email = NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return domain.ErrDuplicateEmail
	}
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *memoryUserRepository) Save(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok || stored.Version != user.Version {
		return domain.ErrVersionConflict
	}

	user.Email = NormalizeEmail(user.Email)
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}

	user.Version++
	r.users[user.ID] = user.Clone()
	return nil
}
