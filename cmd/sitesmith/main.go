// Package main is the entry point for the sitesmith server.
// It loads configuration, wires the AI providers, image pipeline and
// storage, sets up routing, and starts the HTTP server with graceful
// shutdown support.
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
	"github.com/spf13/afero"

	"sitesmith/internal/ai"
	"sitesmith/internal/config"
	"sitesmith/internal/content"
	"sitesmith/internal/handlers"
	"sitesmith/internal/imaging"
	"sitesmith/internal/middleware"
	"sitesmith/internal/packager"
	"sitesmith/internal/router"
	"sitesmith/internal/site"
	"sitesmith/internal/storage"
)

func main() {
	// Load .env if present. Real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"provider", cfg.AIProvider,
	)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, ImageModel: cfg.OpenAIImageModel},
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Connect to S3-compatible object storage (optional — the local
	// generation and upload endpoints work without it).
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
		slog.Warn("s3 storage not configured — hosted image endpoints disabled")
	}

	// Start the libvips image pipeline.
	imaging.Startup(0)
	defer imaging.Shutdown()
	processor := imaging.NewProcessor(imaging.DefaultVariants)

	renderer, err := site.NewRenderer()
	if err != nil {
		slog.Error("failed to initialize site renderer", "error", err)
		os.Exit(1)
	}

	osFs := afero.NewOsFs()
	fetcher := content.NewFetcher(aiRegistry)
	pkg := packager.New(osFs, cfg.OutputDir, cfg.UploadDir, cfg.StrictImageCopy)

	uploader, err := handlers.NewUploader(osFs, cfg.UploadDir)
	if err != nil {
		slog.Error("failed to initialize uploads", "error", err)
		os.Exit(1)
	}

	generator := handlers.NewGenerator(fetcher, renderer, pkg, cfg.IsDev())

	// A nil *storage.Client must stay a nil interface for the handler's
	// availability check.
	var store handlers.ObjectStore
	if storageClient != nil {
		store = storageClient
	}
	images := handlers.NewImages(store, processor, aiRegistry, cfg.IsDev())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer rateLimiter.Stop()

	r := router.New(router.Deps{
		Generator:      generator,
		Uploader:       uploader,
		Images:         images,
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      cfg.UploadDir,
	})

	// WriteTimeout must accommodate endpoints that wait on LLM responses
	// (typically 10-30s, up to 60s for complex prompts).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
