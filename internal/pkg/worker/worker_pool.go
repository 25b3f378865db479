package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"callguard/internal/pkg/analyzer"
	"callguard/internal/pkg/exporter"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
	"callguard/internal/pkg/queue"
)

// Verdict persistence used by the pool; *verdictstore.Store satisfies it.
type VerdictStore interface {
	SaveVerdict(ctx context.Context, callID string, verdict models.FinalVerdict) error
	Verdict(ctx context.Context, callID string) (models.FinalVerdict, bool, error)
}

// Manages a pool of workers draining the analysis queue in parallel.
type WorkerPool struct {
	numWorkers int
	queue      *queue.Queue
	analyzer   *analyzer.Analyzer
	store      VerdictStore
	exporter   *exporter.BulkExporter
	wg         sync.WaitGroup
}

// Creates a new worker pool. The store and exporter are optional.
func NewWorkerPool(numWorkers int, queue *queue.Queue, analyzer *analyzer.Analyzer,
	store VerdictStore, exporter *exporter.BulkExporter) *WorkerPool {
	return &WorkerPool{
		numWorkers: numWorkers,
		queue:      queue,
		analyzer:   analyzer,
		store:      store,
		exporter:   exporter,
	}
}

// Launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	logger.Log.Info("Starting worker pool", zap.Int("workers", wp.numWorkers))

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.runWorker(ctx, i)
	}
}

// Blocks until all workers have finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// The main loop for each worker goroutine.
func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
	defer wp.wg.Done()

	logger.Log.Info("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Worker received stop signal", zap.Int("worker_id", id))
			return
		default:
			job, err := wp.queue.Remove()
			if err != nil {
				// If queue is empty, wait a bit before trying again
				time.Sleep(200 * time.Millisecond)
				continue
			}

			// Calls already carrying a verdict are not re-analyzed.
			if wp.store != nil {
				if _, found, err := wp.store.Verdict(ctx, job.CallID); err == nil && found {
					logger.Log.Info("Skipping call with stored verdict",
						zap.Int("worker_id", id),
						zap.String("call_id", job.CallID))
					continue
				}
			}

			analysis, err := wp.analyzer.Analyze(ctx, job.CallID, job.AudioPath)
			if err != nil {
				logger.Log.Warn("Failed to analyze call",
					zap.Int("worker_id", id),
					zap.String("call_id", job.CallID),
					zap.String("audio_path", job.AudioPath),
					zap.Error(err))
				continue
			}

			if wp.store != nil {
				if err := wp.store.SaveVerdict(ctx, analysis.CallID, analysis.Verdict); err != nil {
					logger.Log.Error("Failed to persist verdict",
						zap.String("call_id", analysis.CallID),
						zap.Error(err))
				}
			}

			if wp.exporter != nil {
				wp.exporter.Add(&analysis)
			}
		}
	}
}
