package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// EnsureAdmin creates an admin account unless the username is taken. It
// reports whether a new account was created. The password policy applies.
func EnsureAdmin(ctx context.Context, store repository.Store, username, email, password string) (*entity.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, apperr.Field("username", "this field is required")
	}
	existing, err := store.Users().GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}
	if err := checkNewPassword(username, password, "", false); err != nil {
		return nil, false, err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: hash,
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	if err := store.Users().Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
