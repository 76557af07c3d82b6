package service

import (
	"context"
	"strings"
	"sync"

	"go-auth-api/internal/model"
)

// memStore is an in-memory UserStore that mirrors the repository's
// behavior, including the unique-email guarantee on writes.
type memStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemStore() *memStore {
	return &memStore{users: map[string]model.User{}}
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.emailTakenLocked(email, ""), nil
}

func (s *memStore) ExistsByEmailExcluding(_ context.Context, email string, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.emailTakenLocked(email, excludeID), nil
}

func (s *memStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(u.Email, "") {
		return model.ErrUserAlreadyExists
	}
	s.users[u.ID] = u
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, id string, username *string, email *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}

	if email != nil && s.emailTakenLocked(*email, id) {
		return model.ErrUserAlreadyExists
	}

	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	s.users[id] = user
	return nil
}

func (s *memStore) emailTakenLocked(email string, excludeID string) bool {
	for _, user := range s.users {
		if user.ID == excludeID {
			continue
		}
		if strings.EqualFold(user.Email, email) {
			return true
		}
	}
	return false
}
