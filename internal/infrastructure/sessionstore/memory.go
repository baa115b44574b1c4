// Package sessionstore provides the server-side session backends. Sessions
// are keyed by an opaque ID; the client never sees session contents.
package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

// Memory is an in-process session store. Expiry is enforced lazily on Find,
// so no background sweeper is needed.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]domain.Session)}
}

func (m *Memory) Save(ctx context.Context, sess *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = *sess
	return nil
}

func (m *Memory) Find(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if sess.Expired(time.Now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	out := sess
	return &out, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
