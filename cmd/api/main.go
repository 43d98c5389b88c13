// @title        Users API
// @version      1.0
// @description  In-memory CRUD over user records.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/99minutos/users-api/internal/api"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/core/service"
	"github.com/99minutos/users-api/internal/infrastructure/config"
	"github.com/99minutos/users-api/internal/infrastructure/db/memory"
	"github.com/99minutos/users-api/internal/infrastructure/db/redis"
	"github.com/99minutos/users-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/users-api/internal/infrastructure/idgen"
	"github.com/99minutos/users-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("users-api failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logging
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	lg := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "users-api",
	})

	// 2. Storage
	ids, err := idgen.NewShortid(cfg.IDs.Worker, cfg.IDs.Seed)
	if err != nil {
		return err
	}
	repo := memory.NewUserRepository(ids)

	// 3. Idempotency keys: shared through Redis when configured, otherwise local
	readiness := map[string]handlers.Checker{}
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		idem = redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		readiness["redis"] = redis.Ping(client)
		lg.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys stored in redis")
	} else {
		idem = memory.NewIdempotencyStore(cfg.Redis.IdempotencyTTL)
	}

	// 4. Service
	users := service.NewUserService(repo, idem, lg)
	if cfg.SeedUsers {
		if err := users.Seed(ctx, domain.SampleUsers()); err != nil {
			return err
		}
	}

	// 5. HTTP server
	e := api.NewRouter(api.Dependencies{
		Users:      users,
		Logger:     lg,
		Readiness:  readiness,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	serveErr := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 6. Graceful shutdown
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	lg.Info().Msg("graceful shutdown complete")
	return nil
}
