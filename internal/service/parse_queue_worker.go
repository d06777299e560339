package service

import (
	"context"
	"log"
	"sync"
	"time"

	"gradeledger/internal/port"
)

// defaultParseTimeout bounds one sheet parse, OCR included.
const defaultParseTimeout = 5 * time.Minute

// ParseQueueConfig holds settings for the parse queue worker.
type ParseQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	ParseTimeout time.Duration
}

// ParseQueueWorker polls for queued sheets and dispatches them for parsing.
type ParseQueueWorker struct {
	sheetRepo    port.ResultSheetRepository
	sheetService SheetService
	cfg          ParseQueueConfig
	wg           sync.WaitGroup
}

// NewParseQueueWorker creates a new ParseQueueWorker.
func NewParseQueueWorker(sheetRepo port.ResultSheetRepository, sheetService SheetService, cfg ParseQueueConfig) *ParseQueueWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = defaultParseTimeout
	}
	return &ParseQueueWorker{
		sheetRepo:    sheetRepo,
		sheetService: sheetService,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight parse goroutines have finished.
func (w *ParseQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("parseQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("parseQueueWorker: shutting down, waiting for in-flight parses...")
			w.wg.Wait()
			log.Printf("parseQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *ParseQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	sheets, err := w.sheetRepo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("parseQueueWorker: ClaimQueued error: %v", err)
		}
		return
	}

	for i := range sheets {
		sheet := sheets[i]
		sheet.ParseAttempts++

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Detached from the poll context so in-flight parses finish during shutdown.
			parseCtx, cancel := context.WithTimeout(context.Background(), w.cfg.ParseTimeout)
			defer cancel()

			log.Printf("parseQueueWorker: dispatching sheet %s (attempt %d)", sheet.ID, sheet.ParseAttempts)
			w.sheetService.ParseSheet(parseCtx, &sheet, w.cfg.MaxRetries)
		}()
	}
}
