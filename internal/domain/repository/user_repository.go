package repository

import (
	"context"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return apperr.ErrNotFound for missing rows and Create returns
// apperr.ErrConflict for a duplicate username.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// Update writes contact fields only; username, password and role are left untouched.
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
