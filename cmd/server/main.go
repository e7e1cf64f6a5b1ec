package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/database"
	"github.com/stemsi/school-registry/internal/handler"
	"github.com/stemsi/school-registry/internal/logger"
	"github.com/stemsi/school-registry/internal/mediahost"
	"github.com/stemsi/school-registry/internal/repository"
	"github.com/stemsi/school-registry/internal/router"
	"github.com/stemsi/school-registry/internal/service"
	"github.com/stemsi/school-registry/internal/validator"
	"github.com/stemsi/school-registry/internal/web"
	"github.com/stemsi/school-registry/internal/workflow"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.StoreBackend).
		Str("media", cfg.MediaBackend).
		Msg("Starting School Registry")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Both external services share one client; a hung call ends at the timeout.
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	// ─── Record Store ──────────────────────────────────────────────────
	schoolRepo, closeStore, err := repository.Open(ctx, cfg, httpClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer closeStore()

	// ─── Media Host ────────────────────────────────────────────────────
	var uploader mediahost.Uploader
	switch cfg.MediaBackend {
	case config.MediaS3:
		s3, err := mediahost.NewS3Uploader(mediahost.S3Options{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			UseSSL:        cfg.S3UseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 client")
		}
		uploader = s3
	case config.MediaCloudinary:
		uploader = mediahost.NewCloudinaryUploader(cfg.CloudinaryAPIBase, cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, httpClient, log)
	default:
		log.Fatal().Str("media", cfg.MediaBackend).Msg("Unknown MEDIA_BACKEND")
	}

	// ─── Submission Guard ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	var guard workflow.Guard = workflow.NewMemoryGuard()
	if rdb != nil {
		defer rdb.Close()
		guard = workflow.NewRedisGuard(rdb, cfg.SubmissionLockTTL)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	mediaService := service.NewMediaService(cfg, uploader, log)
	schoolService := service.NewSchoolService(schoolRepo, cfg.StoreBackend, log)

	submission := workflow.NewSubmission(mediaService, schoolService, guard, log)
	listing := workflow.NewListing(schoolService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	tmpl := web.Templates()
	handlers := &router.Handlers{
		Page:   handler.NewPageHandler(submission, listing, tmpl, log),
		School: handler.NewSchoolHandler(submission, listing),
		Media:  handler.NewMediaHandler(mediaService, guard, log),
		System: handler.NewSystemHandler(cfg, rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, tmpl, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). In-flight submissions
	// finish or fail on their own; nothing is retried.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
