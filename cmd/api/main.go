// @title                       User Administration API
// @version                     1.0
// @description                 User management endpoints for the admin console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by the identity service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/api"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/crypto"
	mongodb "github.com/99minutos/user-admin/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/user-admin/internal/pkg/config"
	"github.com/99minutos/user-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// run may fail before the singleton logger exists.
		log := logger.New(logger.Options{Service: "user-admin"})
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-admin",
		Env:     cfg.Env,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer disconnect(log, "mongodb", func() error { return client.Disconnect(context.Background()) })

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer disconnect(log, "redis", rdb.Close)

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	if err := mongodb.Bootstrap(ctx, userRepo, roleRepo); err != nil {
		return err
	}
	roles := redisdb.NewRoleCache(roleRepo, rdb, cfg.RoleCacheTTL, log)

	e := api.NewRouter(api.Dependencies{
		Users:     service.NewUserService(userRepo, roles, crypto.NewBcryptHasher(cfg.BcryptCost), log),
		Sessions:  service.NewSessionService(userRepo, roles),
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
		Checks:    []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func disconnect(log zerolog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn().Err(err).Str("dependency", name).Msg("close failed")
	}
}
