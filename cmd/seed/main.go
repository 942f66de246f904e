package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/shamba-farm/config"
	"github.com/oksasatya/shamba-farm/internal/application"
	pginfra "github.com/oksasatya/shamba-farm/internal/infrastructure/postgres"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// seed creates the initial admin account from ADMIN_USERNAME, ADMIN_EMAIL
// and ADMIN_PASSWORD. Running it again is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	u, created, err := application.EnsureAdmin(ctx, pginfra.NewStore(pool), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		if fields := apperr.Fields(err); fields != nil {
			log.Fatalf("admin account rejected: %v", fields)
		}
		log.Fatalf("failed to seed admin: %v", err)
	}
	if !created {
		logger.WithField("username", u.Username).Info("admin already exists")
		return
	}
	logger.WithField("username", u.Username).WithField("id", u.ID).Info("seeded admin account")
}
