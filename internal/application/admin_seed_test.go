package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/infrastructure/memory"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

func TestEnsureAdmin(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if _, _, err := EnsureAdmin(ctx, store, "root", "root@example.com", "root1234"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("weak password: got %v", err)
	}

	u, created, err := EnsureAdmin(ctx, store, "root", "root@example.com", testPassword)
	if err != nil || !created || u.Role != entity.RoleAdmin {
		t.Fatalf("first run: %+v %v %v", u, created, err)
	}
	again, created, err := EnsureAdmin(ctx, store, "root", "other@example.com", testPassword)
	if err != nil || created || again.ID != u.ID {
		t.Fatalf("second run should be a no-op: %+v %v %v", again, created, err)
	}
}
