// Package main is the entry point for the linkkeep server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
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

	"linkkeep/internal/ai"
	"linkkeep/internal/cache"
	"linkkeep/internal/category"
	"linkkeep/internal/config"
	"linkkeep/internal/database"
	"linkkeep/internal/handlers"
	"linkkeep/internal/ranking"
	"linkkeep/internal/router"
	"linkkeep/internal/session"
	"linkkeep/internal/storage"
	"linkkeep/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// A local .env is a development convenience; absence is fine.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis (sessions + summary cache).
	redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// In non-development environments, mark session cookies as Secure.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(redisClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	contentStore := store.NewContentStore(db)
	collectionStore := store.NewCollectionStore(db)
	saveLogStore := store.NewSaveLogStore(db)
	mediaStore := store.NewMediaStore(db)
	txRunner := store.NewTxRunner(db)

	// Domain services.
	categoryService := category.NewService(categoryStore, contentStore, txRunner)
	ranker := ranking.NewRanker(saveLogStore, categoryStore, contentStore)

	// Connect to S3-compatible object storage (optional).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, thumbnail uploads disabled")
	}

	// AI providers for article summarization.
	aiRegistry := ai.NewRegistry()
	aiRegistry.Register(ai.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL))
	aiRegistry.Register(ai.NewGroqProvider(cfg.GroqKey, cfg.GroqModel, cfg.GroqBaseURL))
	slog.Info("ai providers initialized", "active", cfg.AIProvider, "available", aiRegistry.Names())

	summaryCache := cache.NewSummaryCache(redisClient, cache.DefaultSummaryTTL)

	// Handler groups.
	h := router.Handlers{
		Auth:        handlers.NewAuth(sessionStore, userStore, saveLogStore),
		Categories:  handlers.NewCategories(categoryService, ranker),
		Contents:    handlers.NewContents(contentStore, categoryService, ranker, summaryCache, aiRegistry, cfg.AIProvider, storageClient),
		Collections: handlers.NewCollections(collectionStore, contentStore),
		Uploads:     handlers.NewUploads(storageClient, mediaStore, contentStore),
	}

	r := router.New(sessionStore, h)

	// WriteTimeout must accommodate the summarize endpoint, which waits on
	// an LLM response.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
