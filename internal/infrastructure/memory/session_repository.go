package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

// SessionRepository keeps sessions in a map and honours ExpiresAt on read.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	Now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]entity.Session), Now: time.Now}
}

func (r *SessionRepository) Save(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.Now().UTC()
	}
	r.sessions[s.UserID] = *s
	return nil
}

func (r *SessionRepository) Get(_ context.Context, userID string) (*entity.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok || !r.Now().Before(s.ExpiresAt) {
		return nil, apperr.ErrNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
