package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/docuchat/backend/internal/api"
	"github.com/docuchat/backend/internal/config"
	"github.com/docuchat/backend/internal/database"
	"github.com/docuchat/backend/internal/source"
	"github.com/docuchat/backend/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Vector store is required: nothing works without it.
	store, err := vectorstore.NewQdrantStore(cfg.Qdrant.Addr, cfg.LLM.CallTimeout)
	if err != nil {
		slog.Error("failed to connect to qdrant", "addr", cfg.Qdrant.Addr, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Source registry: postgres when configured, in-memory otherwise.
	var registry source.Registry
	if cfg.Database.URL != "" {
		db, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg, err := source.NewPostgresRegistry(ctx, db)
		if err != nil {
			slog.Error("failed to prepare source registry", "error", err)
			os.Exit(1)
		}
		registry = pg

		rdb := setupRedis(ctx, cfg)
		router := api.NewRouter(store, registry, db, rdb, cfg)
		run(router.Setup(), cfg)
		return
	}

	slog.Warn("no DATABASE_URL set, tracked sources will not survive restarts")
	registry = source.NewMemoryRegistry()

	rdb := setupRedis(ctx, cfg)
	router := api.NewRouter(store, registry, nil, rdb, cfg)
	run(router.Setup(), cfg)
}

// setupRedis returns nil when redis is unreachable; the embedding cache is
// an optimization, not a dependency.
func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without embedding cache", "error", err)
		rdb.Close()
		return nil
	}
	return rdb
}

func run(handler http.Handler, cfg *config.Config) {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
