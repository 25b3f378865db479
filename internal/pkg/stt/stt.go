package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"callguard/internal/pkg/circuitbreaker"
)

// Defines the contract of the external speech-recognition service. An empty
// transcript is a valid result; failures surface as errors.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Talks to the transcription service over HTTP, guarded by a circuit breaker.
type httpTranscriber struct {
	serviceURL string
	client     *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

type transcribeRequest struct {
	AudioPath string `json:"audio_path"`
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

// Creates a Transcriber backed by the HTTP service at serviceURL.
func NewHTTPTranscriber(serviceURL string, timeout time.Duration) Transcriber {
	return &httpTranscriber{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.NewCircuitBreaker("stt", 5, 30*time.Second),
	}
}

func (t *httpTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	payload, err := json.Marshal(transcribeRequest{AudioPath: audioPath})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcription request: %w", err)
	}

	var transcript string
	err = t.breaker.Execute(func() error {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, t.serviceURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create transcription request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")

		response, err := t.client.Do(request)
		if err != nil {
			return fmt.Errorf("transcription request failed: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode >= 300 {
			io.Copy(io.Discard, response.Body)
			return fmt.Errorf("transcription service returned status %d", response.StatusCode)
		}

		var decoded transcribeResponse
		if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("failed to decode transcription response: %w", err)
		}
		transcript = decoded.Transcript
		return nil
	})
	if err != nil {
		return "", err
	}

	return transcript, nil
}
