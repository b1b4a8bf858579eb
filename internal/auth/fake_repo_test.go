package auth

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/lib/pq"
)

// memoryRepo is an in-process Repository for service and handler tests.
type memoryRepo struct {
	mu       sync.Mutex
	users    map[string]*User
	sessions map[string]Session
	err      error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:    map[string]*User{},
		sessions: map[string]Session{},
	}
}

func (m *memoryRepo) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *memoryRepo) UserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) UserByID(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) UpdatePassword(ctx context.Context, id, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (m *memoryRepo) UpdateRoles(ctx context.Context, id string, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Roles = pq.StringArray(append([]string(nil), roles...))
	return nil
}

func (m *memoryRepo) UpsertSession(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.sessions {
		if existing.UserID == s.UserID {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *memoryRepo) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryRepo) FindSessionByID(id string) (utils.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return utils.SessionData{}, ErrSessionNotFound
	}
	return utils.SessionData{UserID: s.UserID, ExpiresAt: s.ExpiresAt}, nil
}

func (m *memoryRepo) expireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.ExpiresAt = s.ExpiresAt.Add(-2 * SessionTTL)
		m.sessions[id] = s
	}
}
