package users

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a user with the given ID is not found.
var ErrNotFound = errors.New("user not found")

// ErrEmptyID is returned when trying to store a user with an empty ID.
var ErrEmptyID = errors.New("empty user ID")

// Storage persists user profiles.
type Storage interface {
	Set(ctx context.Context, user *User) error
	Read(ctx context.Context, id string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
}

// LocalStorage provides an in-memory implementation for storing users.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]User
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]User{},
	}
}

// Set stores a copy of user. Returns ErrEmptyID if the user has an empty ID.
func (l *LocalStorage) Set(_ context.Context, user *User) error {
	if user.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	l.m[user.ID] = *user
	l.mu.Unlock()
	return nil
}

// Read retrieves a user by ID.
// Returns ErrNotFound if the user is not found.
func (l *LocalStorage) Read(_ context.Context, id string) (*User, error) {
	l.mu.RLock()
	u, ok := l.m[id]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetAll returns every user ordered by creation time.
func (l *LocalStorage) GetAll(_ context.Context) ([]*User, error) {
	l.mu.RLock()
	all := make([]*User, 0, len(l.m))
	for _, u := range l.m {
		all = append(all, &u)
	}
	l.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}
