package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"taskhub/internal/config"
	"taskhub/internal/server"
	"taskhub/internal/storage"
	"taskhub/internal/storage/memory"
	"taskhub/internal/storage/postgres"
	"taskhub/internal/storage/redis"
	"taskhub/internal/storage/sqlite"
	"taskhub/internal/tasks"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskhub: %v\n", err)
		os.Exit(2)
	}

	logger := cfg.NewLogger(os.Stdout)
	logger.Info("TaskHub task tracker starting", slog.String("store", cfg.Store))

	store, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("unable to open task store", slog.String("store", cfg.Store), slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(tasks.NewService(store, logger), logger, cfg.StaticDir)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			_ = store.Close()
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// The store must outlive in-flight requests, so both steps run in one operation.
			"taskhub": func(ctx context.Context) error {
				logger.Info("shutting down")
				if err := httpServer.Shutdown(ctx); err != nil {
					logger.Error("failed to shutdown server", slog.String("error", err.Error()))
				}
				return store.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
}

// openStore builds the backend selected by cfg.Store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; tasks are lost on restart")
		return memory.New(), nil
	case config.StoreSQLite:
		return sqlite.Open(cfg.DBPath, logger)
	case config.StoreRedis:
		return redis.Open(ctx, cfg.RedisURL, cfg.RedisPrefix, logger)
	case config.StorePostgres:
		return postgres.Open(ctx, cfg.PostgresDSN, logger)
	}
	return nil, fmt.Errorf("unsupported store %q", cfg.Store)
}
