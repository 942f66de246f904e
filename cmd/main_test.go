package main

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/config"
	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/infrastructure/memory"
)

func TestBootstrapAdminOnMemoryStore(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()
	store := memory.NewStore()

	cfg := &config.Config{AdminUsername: "root", AdminEmail: "root@example.com"}
	if err := bootstrapAdmin(ctx, store, cfg, logger); err != nil {
		t.Fatalf("no password: %v", err)
	}
	if _, err := store.Users().GetByUsername(ctx, "root"); err == nil {
		t.Fatal("no admin should be created without ADMIN_PASSWORD")
	}

	cfg.AdminPassword = "Harvest-Season-42"
	for i := 0; i < 2; i++ {
		if err := bootstrapAdmin(ctx, store, cfg, logger); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	u, err := store.Users().GetByUsername(ctx, "root")
	if err != nil || u.Role != entity.RoleAdmin || !u.IsActive {
		t.Fatalf("admin not created: %+v %v", u, err)
	}

	cfg.AdminUsername, cfg.AdminPassword = "other", "12345678"
	if err := bootstrapAdmin(ctx, store, cfg, logger); err == nil {
		t.Fatal("weak admin password must be rejected")
	}
}
