package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"docverify/internal/config"
	"docverify/internal/extractor"
	_ "docverify/internal/extractor/openai"
	"docverify/internal/handler"
	"docverify/internal/logging"
	"docverify/internal/port"
	"docverify/internal/repository/postgres"
	"docverify/internal/router"
	"docverify/internal/service"
	s3storage "docverify/internal/storage/s3"
)

const apiVersion = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server: exiting")
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("DOCVERIFY_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	logging.Setup(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	fieldRepo := postgres.NewFieldRepo(db)
	historyRepo := postgres.NewExtractionHistoryRepo(db)

	// Initialize storage; without a bucket source files stay inline
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("server: storing source files in S3")
	}

	// Initialize extractor
	fieldExtractor, err := extractor.New(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Initialize services
	documentSvc := service.NewDocumentService(
		docRepo, fieldRepo, historyRepo,
		fieldExtractor, storage, extractor.DefaultSchema(),
		&cfg.Upload, &cfg.S3,
	)

	// Initialize handlers and router
	r := router.Setup(cfg.Server.BasePath, cfg.CORS.AllowedOrigins, router.Handlers{
		Document: handler.NewDocumentHandler(documentSvc),
		Extract:  handler.NewExtractHandler(documentSvc, cfg.Upload.MaxBytes()),
		Field:    handler.NewFieldHandler(documentSvc),
		Health:   handler.NewHealthHandler(db, apiVersion, cfg.Extractor.Model),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("base_path", cfg.Server.BasePath).Msg("server: listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
