package repository

import (
	"context"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
)

// SessionRepository is the credential store. One live session per user.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	// Get returns apperr.ErrNotFound when no live session exists.
	Get(ctx context.Context, userID string) (*entity.Session, error)
	// Delete is a no-op for a missing session.
	Delete(ctx context.Context, userID string) error
}
