// Package stubapi is an in-memory implementation of the remote task service
// contract. It backs cmd/stubserver for local development and the end-to-end
// client tests; it mirrors the real backend's response shapes, including the
// field-error maps and the bare user record on GET /api/user.
package stubapi

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskgo/client/domain"
)

type account struct {
	user         domain.User
	passwordHash []byte
}

// Store holds all server-side state behind a single mutex.
type Store struct {
	mu         sync.Mutex
	users      map[int64]*account
	byEmail    map[string]int64
	todos      map[int64][]*domain.Task
	revoked    map[string]bool
	nextUserID int64
	nextTodoID int64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*account),
		byEmail:    make(map[string]int64),
		todos:      make(map[int64][]*domain.Task),
		revoked:    make(map[string]bool),
		nextUserID: 1,
		nextTodoID: 1,
	}
}

// CreateUser registers an account. Returns false when the email is taken.
func (s *Store) CreateUser(name, email, password, photo string) (domain.User, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return domain.User{}, false
	}
	id := s.nextUserID
	s.nextUserID++
	user := domain.User{
		ID:     id,
		Name:   name,
		Email:  email,
		Photo:  photo,
		Role:   "user",
		Status: "active",
	}
	s.users[id] = &account{user: user, passwordHash: hash}
	s.byEmail[email] = id
	return user, true
}

// Authenticate verifies the credential pair and returns the user on success.
func (s *Store) Authenticate(email, password string) (domain.User, bool) {
	s.mu.Lock()
	id, ok := s.byEmail[email]
	var acc *account
	if ok {
		acc = s.users[id]
	}
	s.mu.Unlock()
	if acc == nil {
		return domain.User{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return domain.User{}, false
	}
	return acc.user, true
}

// UserByID returns a copy of the user record.
func (s *Store) UserByID(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

// CheckPassword verifies the stored password of an existing user.
func (s *Store) CheckPassword(id int64, password string) bool {
	s.mu.Lock()
	acc := s.users[id]
	s.mu.Unlock()
	if acc == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) == nil
}

// UpdateUser replaces profile fields and optionally the password.
func (s *Store) UpdateUser(id int64, name, email, photo, newPassword string) (domain.User, bool) {
	var hash []byte
	if newPassword != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	if email != acc.user.Email {
		if _, taken := s.byEmail[email]; taken {
			return domain.User{}, false
		}
		delete(s.byEmail, acc.user.Email)
		s.byEmail[email] = id
	}
	acc.user.Name = name
	acc.user.Email = email
	if photo != "" {
		acc.user.Photo = photo
	}
	if hash != nil {
		acc.passwordHash = hash
	}
	return acc.user, true
}

// ResetPassword replaces the password of the account owning email.
func (s *Store) ResetPassword(email, newPassword string) bool {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return false
	}
	s.users[id].passwordHash = hash
	return true
}

// Todos returns the user's tasks in creation order.
func (s *Store) Todos(userID int64) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.todos[userID]
	out := make([]domain.Task, 0, len(list))
	for _, t := range list {
		out = append(out, *t)
	}
	return out
}

// CreateTodo assigns an id and appends the task.
func (s *Store) CreateTodo(userID int64, task domain.Task) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextTodoID
	s.nextTodoID++
	stored := task
	s.todos[userID] = append(s.todos[userID], &stored)
	return task
}

// UpdateTodo applies fn to the matching task. Returns false when the id does
// not belong to the user.
func (s *Store) UpdateTodo(userID, todoID int64, fn func(*domain.Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos[userID] {
		if t.ID == todoID {
			fn(t)
			return true
		}
	}
	return false
}

// DeleteTodo removes the matching task.
func (s *Store) DeleteTodo(userID, todoID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.todos[userID]
	for i, t := range list {
		if t.ID == todoID {
			s.todos[userID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// RevokeToken invalidates a bearer token after logout.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// TokenRevoked reports whether the token was revoked.
func (s *Store) TokenRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token]
}
