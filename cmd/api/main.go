// @title           Sweet Shop API
// @version         1.0
// @description     Catalog, inventory and authentication API for the Sweet Shop.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweetshop/sweet-shop/internal/api"
	"github.com/sweetshop/sweet-shop/internal/core/service"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/config"
	redisdb "github.com/sweetshop/sweet-shop/internal/infrastructure/db/redis"
	httpserver "github.com/sweetshop/sweet-shop/internal/infrastructure/http"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/http/handlers"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/queue"
	"github.com/sweetshop/sweet-shop/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "sweetshop-api",
	})

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("storage close failed")
		}
	}()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	kv, err := redisdb.Open(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		DedupTTL: cfg.Redis.DedupTTL,
	})
	if err != nil {
		return err
	}
	defer kv.Close()

	// workers outlive the signal context so buffered events drain after the server stops
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Workers, service.NewStockEventService(store.events, log), log)
	dispatcher.Start(workerCtx)

	authService := service.NewAuthService(store.users, kv.Revoker, service.AuthOptions{
		JWTSecret: cfg.JWTSecret,
		AdminKey:  cfg.AdminKey,
		TokenTTL:  cfg.TokenTTL,
	}, log)
	sweetService := service.NewSweetService(store.sweets, store.events, kv.Dedup, dispatcher, log)

	e := api.NewRouter(api.RouterDeps{
		Auth:        authService,
		Sweets:      sweetService,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
		Readiness: map[string]handlers.PingFunc{
			"storage": store.ping,
			"redis":   kv.Ping,
		},
	})

	srv := httpserver.NewServer(e, cfg.Port, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stopWorkers()
			dispatcher.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}
