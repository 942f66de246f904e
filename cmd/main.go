package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/shamba-farm/config"
	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/container"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/shamba-farm/internal/infrastructure/postgres"
	"github.com/oksasatya/shamba-farm/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/internal/router"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
	"github.com/oksasatya/shamba-farm/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	checks := map[string]handlers.Pinger{}

	// Relational store
	if cfg.UsePostgres() {
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		store := pginfra.NewStore(pool)
		container.SetPGPool(pool)
		container.SetStore(store)
		checks["postgres"] = store
	} else {
		logger.Warn("STORE_DRIVER=memory: data is lost on restart")
		store := memory.NewStore()
		container.SetStore(store)
		checks["store"] = store
	}
	if err := bootstrapAdmin(ctx, container.GetStore(), cfg, logger); err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	// Credential store
	if cfg.UseRedis() {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		container.SetRedis(rdb)
		container.SetSessions(redisstore.NewSessionRepository(rdb))
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		logger.Warn("SESSION_DRIVER=memory: sessions are per-process and rate limiting is off")
		container.SetSessions(memory.NewSessionRepository())
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL, cfg.AppName)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(jwtManager)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	if cfg.DebugMetricsEnabled {
		r.Use(middleware.Metrics())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, handlers.NewHealthHandler(checks))
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// bootstrapAdmin creates the ADMIN_* account when ADMIN_PASSWORD is set. It
// works for both store drivers; an existing account is left alone.
func bootstrapAdmin(ctx context.Context, store repository.Store, cfg *config.Config, logger *logrus.Logger) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	u, created, err := application.EnsureAdmin(ctx, store, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.WithField("username", u.Username).Info("created admin account")
	}
	return nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
