package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"contenthub/internal/cache"
	"contenthub/internal/cleanup"
	"contenthub/internal/config"
	"contenthub/internal/database"
	"contenthub/internal/handlers"
	"contenthub/internal/router"
	"contenthub/internal/store"
	"contenthub/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// A failed seed leaves the API usable, so it is not fatal.
	if cfg.SeedOnStart {
		if err := database.Seed(ctx, db, cfg.SeedPreset); err != nil {
			slog.Error("failed to seed categories", "preset", cfg.SeedPreset, "error", err)
		}
	}

	var responses *cache.ResponseCache
	if cfg.CacheEnabled {
		client, err := cache.ConnectValkey(ctx, cache.ValkeyConfig{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			return fmt.Errorf("connect valkey: %w", err)
		}
		defer client.Close()
		responses = cache.NewResponseCache(client, cfg.CacheTTL)
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)
	news := store.NewNewsStore(db)

	sweeper := cleanup.NewSweeper(backend, cfg.CleanupGrace, posts, news)
	scheduler, err := sweeper.Schedule(ctx, cfg.CleanupSchedule)
	if err != nil {
		return err
	}

	api := handlers.NewAPI(categories, posts, news, uploads.NewProcessor(backend, cfg.UploadMaxFileSize), responses)

	opts := router.Options{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitAPI:       cfg.RateLimitAPI,
		RateLimitDownloads: cfg.RateLimitDownloads,
	}
	if cfg.StorageBackend == config.StorageDisk {
		opts.UploadDir = cfg.UploadDir
		opts.UploadURLPrefix = cfg.UploadURLPrefix
	}

	// Uploads of up to 100MB per file need a generous read timeout.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(api, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			<-scheduler.Stop().Done()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	// Wait for a running sweep to finish.
	<-scheduler.Stop().Done()

	slog.Info("server stopped gracefully")
	return nil
}
