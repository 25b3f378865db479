package exporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
)

func init() {
	// Ensure that the logger is not nil during tests.
	logger.Log = zap.NewNop()
}

// Verifies that when the threshold is met, the BulkExporter flushes
// analyses to the (simulated) export endpoint.
func TestBulkExporterFlushSuccess(t *testing.T) {
	// Create a channel to capture the request payload.
	payloadCh := make(chan []byte, 1)

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read request body: %v", err)
		}
		payloadCh <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	// Threshold of 2 with a long flush interval, so flush is triggered by threshold.
	threshold := 2
	flushIntervalSeconds := 60
	maxRetries := 0
	indexName := "test_verdicts"
	exporter := NewBulkExporter(threshold, testServer.URL, indexName, flushIntervalSeconds, maxRetries)
	defer exporter.Stop()

	analysis1 := &models.CallAnalysis{
		CallID:     "call-1",
		Transcript: "hello there",
		Verdict:    models.FinalVerdict{FinalLabel: models.VerdictNormal},
	}
	analysis2 := &models.CallAnalysis{
		CallID:     "call-2",
		Transcript: "share the otp",
		Verdict:    models.FinalVerdict{FinalLabel: models.VerdictSpam},
	}

	exporter.Add(analysis1)
	exporter.Add(analysis2)

	// Wait for the flush to occur.
	select {
	case payload := <-payloadCh:
		// The NDJSON payload should carry a meta line and a doc line per analysis.
		scanner := bufio.NewScanner(bytes.NewReader(payload))
		var lines []string
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		expectedLines := threshold * 2
		if len(lines) != expectedLines {
			t.Errorf("Expected %d NDJSON lines (2 per analysis), got %d", expectedLines, len(lines))
		}

		var meta map[string]map[string]string
		if err := json.Unmarshal([]byte(lines[0]), &meta); err != nil {
			t.Errorf("Failed to unmarshal meta line: %v", err)
		}
		if meta["index"]["_index"] != indexName {
			t.Errorf("Expected _index to be %q, got %q", indexName, meta["index"]["_index"])
		}
		if meta["index"]["_id"] != "call-1" {
			t.Errorf("Expected _id to be %q, got %q", "call-1", meta["index"]["_id"])
		}
	case <-time.After(3 * time.Second):
		t.Error("Timed out waiting for flush payload")
	}
}

// Verifies that the retry mechanism is exercised when the simulated
// export endpoint returns error codes.
func TestBulkExporterRetry(t *testing.T) {
	var attemptCount int32 // use atomic counter

	// Return HTTP 500 for the first two attempts, then HTTP 200.
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&attemptCount, 1)
		if count < 3 {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer testServer.Close()

	// Threshold of 1 so that flush is triggered immediately.
	threshold := 1
	flushIntervalSeconds := 60
	maxRetries := 3
	exporter := NewBulkExporter(threshold, testServer.URL, "retry_verdicts", flushIntervalSeconds, maxRetries)
	defer exporter.Stop()

	exporter.Add(&models.CallAnalysis{CallID: "call-retry"})

	// Wait enough time for the retries to complete.
	time.Sleep(5 * time.Second)

	if atomic.LoadInt32(&attemptCount) < 3 {
		t.Errorf("Expected at least 3 attempts, got %d", attemptCount)
	}
}

// Stopping the exporter flushes whatever is still buffered.
func TestBulkExporterFlushOnStop(t *testing.T) {
	payloadCh := make(chan []byte, 1)

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read request body: %v", err)
		}
		payloadCh <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	// High threshold and long interval: only Stop can cause the flush.
	exporter := NewBulkExporter(100, testServer.URL, "stop_verdicts", 60, 0)
	exporter.Add(&models.CallAnalysis{CallID: "call-stop"})
	exporter.Stop()

	select {
	case payload := <-payloadCh:
		if !bytes.Contains(payload, []byte("call-stop")) {
			t.Errorf("Expected payload to contain the buffered analysis, got %s", payload)
		}
	case <-time.After(3 * time.Second):
		t.Error("Timed out waiting for flush on stop")
	}
}
