// Package memory holds in-memory store implementations used by tests.
// They mirror the postgres package's scoping rules, including the
// owner-id filters and the public-flag guard on slug reads.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Users is an in-memory store.Users.
type Users struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUsers() *Users {
	return &Users{users: make(map[uuid.UUID]*domain.User)}
}

func (s *Users) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Users) ByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Users) ByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// Sessions is an in-memory store.Sessions.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (s *Sessions) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *Sessions) ByRefreshHash(_ context.Context, refreshHash string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.RefreshHash == refreshHash {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Sessions) Rotate(_ context.Context, oldID uuid.UUID, next *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[oldID]; !ok {
		return domain.ErrSessionExpired
	}
	delete(s.sessions, oldID)
	cp := *next
	s.sessions[next.ID] = &cp
	return nil
}

func (s *Sessions) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Count returns the number of live sessions (test helper).
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type resetToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// ResetTokens is an in-memory store.ResetTokens.
type ResetTokens struct {
	mu     sync.Mutex
	tokens map[string]resetToken
}

func NewResetTokens() *ResetTokens {
	return &ResetTokens{tokens: make(map[string]resetToken)}
}

func (s *ResetTokens) Create(_ context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = resetToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *ResetTokens) Consume(_ context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[tokenHash]
	if !ok || tok.expiresAt.Before(time.Now()) {
		return uuid.Nil, domain.ErrNotFound
	}
	delete(s.tokens, tokenHash)
	return tok.userID, nil
}

// DeleteExpired removes sessions past their refresh window.
func (s *Sessions) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// DeleteExpired removes reset tokens past their expiry.
func (s *ResetTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for hash, tok := range s.tokens {
		if tok.expiresAt.Before(before) {
			delete(s.tokens, hash)
			n++
		}
	}
	return n, nil
}
