package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gradeledger/internal/config"
	"gradeledger/internal/handler"
	"gradeledger/internal/parser"
	"gradeledger/internal/repository/postgres"
	"gradeledger/internal/router"
	"gradeledger/internal/service"
	s3storage "gradeledger/internal/storage/s3"
)

// @title GradeLedger API
// @version 1.0
// @description Result sheet ingestion, record extraction and GPA analytics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	sheetRepo := postgres.NewSheetRepo(db)
	recordRepo := postgres.NewRecordRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the parsing pipeline
	sheetParser, err := parser.NewFromConfig(cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to initialize parser: %w", err)
	}
	log.Printf("parser: strategies=%v ocr=%v", cfg.Extraction.Strategies, cfg.Extraction.OCR.Enabled)

	// Initialize services
	verifier := service.NewTokenVerifier(cfg.JWT)
	sheetSvc := service.NewSheetService(sheetRepo, recordRepo, sheetParser, s3Client, &cfg.S3)
	analyticsSvc := service.NewAnalyticsService(recordRepo)

	// Initialize handlers
	r := router.Setup(verifier, router.Handlers{
		Sheet:     handler.NewSheetHandler(sheetSvc),
		Parse:     handler.NewParseHandler(sheetParser, cfg.S3.MaxFileSizeMB*1024*1024),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Health:    handler.NewHealthHandler(db),
	}, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewParseQueueWorker(sheetRepo, sheetSvc, service.ParseQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
		ParseTimeout: cfg.Extraction.OCR.Timeout() + time.Minute,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	wg.Wait()
	return nil
}
