package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"callguard/internal/pkg/analyzer"
	"callguard/internal/pkg/analyzer/languagedetector"
	"callguard/internal/pkg/analyzer/spamintent"
	"callguard/internal/pkg/catalog"
	"callguard/internal/pkg/config"
	"callguard/internal/pkg/exporter"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
	"callguard/internal/pkg/queue"
	"callguard/internal/pkg/stt"
	"callguard/internal/pkg/verdictstore"
	"callguard/internal/pkg/voicedetect"
	"callguard/internal/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// The engine cannot operate without its intent definitions.
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			logger.Log.Fatal("Failed to load intent catalog", zap.Error(err))
		}
	}

	engine := spamintent.NewEngine(cat)
	detector := languagedetector.New()

	timeout := time.Duration(cfg.ServiceTimeout) * time.Second
	transcriber := stt.NewHTTPTranscriber(cfg.STTServiceURL, timeout)
	classifier := voicedetect.NewHTTPClassifier(cfg.VoiceServiceURL, timeout)

	// Verdict store is best effort; analysis runs without it.
	store, err := verdictstore.NewRedisStore(cfg)
	if err != nil {
		logger.Log.Warn("Running without verdict store", zap.Error(err))
		store = nil
	}

	var cache analyzer.ScoreCache
	var verdicts worker.VerdictStore
	if store != nil {
		cache = store
		verdicts = store
	}
	pipeline := analyzer.New(transcriber, classifier, engine, detector, cache)

	bulkExporter := exporter.NewBulkExporter(cfg.ExportThreshold, cfg.ExportURL, cfg.ExportIndex, cfg.FlushInterval, cfg.MaxRetries)
	defer bulkExporter.Stop()

	jobQueue, err := queue.CreateQueue(cfg.QueueCapacity)
	if err != nil {
		logger.Log.Fatal("Failed to create analysis queue", zap.Error(err))
	}

	// Create a cancellable context so we can gracefully shut down.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := worker.NewWorkerPool(cfg.NumWorkers, jobQueue, pipeline, verdicts, bulkExporter)
	pool.Start(ctx)

	// Enqueue any recordings passed on the command line.
	for i, audioPath := range os.Args[1:] {
		job := models.AnalysisJob{
			CallID:    fmt.Sprintf("call-%d", i+1),
			AudioPath: audioPath,
		}
		if err := jobQueue.Insert(job); err != nil {
			logger.Log.Error("Failed to enqueue recording",
				zap.String("audio_path", audioPath),
				zap.Error(err))
		}
	}

	// Listen for OS signals to gracefully shut down.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	s := <-sigChan
	logger.Log.Info("Shutting down", zap.String("signal", s.String()))
	cancel()

	pool.Wait()
	logger.Log.Info("Call analysis shutdown complete")
}
