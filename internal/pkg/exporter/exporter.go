package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/metrics"
	"callguard/internal/pkg/models"
)

// Buffers completed call analyses and ships them in bulk NDJSON to an
// Elasticsearch-style endpoint, either when a threshold is reached or when
// the flush interval elapses.
type BulkExporter struct {
	mutex         sync.Mutex
	buffer        []*models.CallAnalysis
	threshold     int
	flushChannel  chan struct{}
	stopChannel   chan struct{}
	stopOnce      sync.Once
	exportURL     string
	indexName     string
	flushInterval time.Duration
	maxRetries    int
}

// Creates a BulkExporter and starts its background flush loop.
func NewBulkExporter(threshold int, exportURL, indexName string, flushIntervalSeconds, maxRetries int) *BulkExporter {
	exporter := &BulkExporter{
		buffer:        make([]*models.CallAnalysis, 0, threshold),
		threshold:     threshold,
		flushChannel:  make(chan struct{}, 1),
		stopChannel:   make(chan struct{}),
		exportURL:     exportURL,
		indexName:     indexName,
		flushInterval: time.Duration(flushIntervalSeconds) * time.Second,
		maxRetries:    maxRetries,
	}
	go exporter.startFlushing()
	return exporter
}

// Runs in a goroutine and flushes on signal, on the interval, and on stop.
func (exporter *BulkExporter) startFlushing() {
	ticker := time.NewTicker(exporter.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-exporter.flushChannel:
			exporter.flush()
		case <-ticker.C:
			exporter.flush()
		case <-exporter.stopChannel:
			exporter.flush()
			return
		}
	}
}

// Adds an analysis to the buffer and signals a flush if the threshold is met.
func (exporter *BulkExporter) Add(analysis *models.CallAnalysis) {
	exporter.mutex.Lock()
	defer exporter.mutex.Unlock()

	exporter.buffer = append(exporter.buffer, analysis)
	if len(exporter.buffer) >= exporter.threshold {
		select {
		case exporter.flushChannel <- struct{}{}:
		default:
			// flush already signaled
		}
	}
}

// Flushes any buffered analyses and stops the background loop.
func (exporter *BulkExporter) Stop() {
	exporter.stopOnce.Do(func() {
		close(exporter.stopChannel)
	})
}

// Builds the NDJSON payload and sends it to the export endpoint.
func (exporter *BulkExporter) flush() {
	exporter.mutex.Lock()
	if len(exporter.buffer) == 0 {
		exporter.mutex.Unlock()
		return
	}
	toExport := exporter.buffer
	exporter.buffer = make([]*models.CallAnalysis, 0, exporter.threshold)
	exporter.mutex.Unlock()

	var ndjsonPayload bytes.Buffer
	for _, analysis := range toExport {
		meta := map[string]map[string]string{
			"index": {
				"_index": exporter.indexName,
				"_id":    analysis.CallID,
			},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			logger.Log.Error("Failed to marshal meta line", zap.Error(err))
			continue
		}
		ndjsonPayload.Write(metaLine)
		ndjsonPayload.WriteByte('\n')

		docLine, err := json.Marshal(analysis)
		if err != nil {
			logger.Log.Error("Failed to marshal analysis", zap.Error(err))
			continue
		}
		ndjsonPayload.Write(docLine)
		ndjsonPayload.WriteByte('\n')
	}

	logger.Log.Info("Flushing call analyses to export endpoint",
		zap.Int("count", len(toExport)))

	metrics.ExportFlushes.Inc()

	go exporter.sendBulkRequest(ndjsonPayload.Bytes(), len(toExport))
}

// Sends the bulk payload, retrying failed attempts with backoff.
func (exporter *BulkExporter) sendBulkRequest(payload []byte, count int) {
	for attempt := 0; ; attempt++ {
		err := exporter.postPayload(payload)
		if err == nil {
			metrics.AnalysesExported.Add(float64(count))
			return
		}

		metrics.ExportFailures.Inc()
		if attempt >= exporter.maxRetries {
			logger.Log.Error("Bulk export failed, giving up",
				zap.Error(err),
				zap.Int("attempts", attempt+1))
			return
		}

		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		logger.Log.Warn("Bulk export failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff))
		time.Sleep(backoff)
	}
}

func (exporter *BulkExporter) postPayload(payload []byte) error {
	request, err := http.NewRequestWithContext(context.Background(), http.MethodPost, exporter.exportURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/x-ndjson")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &statusError{code: response.StatusCode}
	}

	logger.Log.Debug("Bulk export successful", zap.Int("status_code", response.StatusCode))
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("export endpoint returned status %d", e.code)
}
