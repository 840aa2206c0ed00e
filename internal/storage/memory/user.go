// Package memory keeps user records for the lifetime of the process.
package memory

import (
	"context"
	"sync"
	"time"

	"news_feed/internal/domain"
)

type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	now    func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[int64]*domain.User),
		nextID: 1,
		now:    time.Now,
	}
}

// Create assigns the next identifier and stores a copy of user. Identifiers
// are never reused, even after Delete.
func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(user.Email) != nil {
		return nil, domain.ErrUserExists
	}

	stored := user.Clone()
	stored.ID = s.nextID
	stored.CreatedAt = s.now()
	s.nextID++

	s.users[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.findByEmail(email); u != nil {
		return u.Clone(), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

// Update merges upd into the stored record.
func (s *UserStore) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if upd.Email != nil {
		if other := s.findByEmail(*upd.Email); other != nil && other.ID != id {
			return nil, domain.ErrUserExists
		}
	}

	merged := u.Clone()
	upd.Apply(merged)
	s.users[id] = merged

	return merged.Clone(), nil
}

func (s *UserStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[id]
	delete(s.users, id)
	return ok, nil
}

// findByEmail scans linearly. Callers hold the lock.
func (s *UserStore) findByEmail(email string) *domain.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
