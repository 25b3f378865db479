package voicedetect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"callguard/internal/pkg/circuitbreaker"
	"callguard/internal/pkg/models"
)

// Defines the contract of the external voice-authenticity classifier.
type Classifier interface {
	Classify(ctx context.Context, audioPath string) (models.VoiceVerdict, error)
}

// Talks to the voice classifier over HTTP, guarded by a circuit breaker.
type httpClassifier struct {
	serviceURL string
	client     *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

type classifyRequest struct {
	AudioPath string `json:"audio_path"`
}

// Wire shape of the classifier service response.
type classifyResponse struct {
	Result     string  `json:"result"`
	Confidence float64 `json:"confidence"`
}

// Creates a Classifier backed by the HTTP service at serviceURL.
func NewHTTPClassifier(serviceURL string, timeout time.Duration) Classifier {
	return &httpClassifier{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.NewCircuitBreaker("voice_detector", 5, 30*time.Second),
	}
}

func (c *httpClassifier) Classify(ctx context.Context, audioPath string) (models.VoiceVerdict, error) {
	payload, err := json.Marshal(classifyRequest{AudioPath: audioPath})
	if err != nil {
		return models.VoiceVerdict{}, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	var verdict models.VoiceVerdict
	err = c.breaker.Execute(func() error {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create classify request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")

		response, err := c.client.Do(request)
		if err != nil {
			return fmt.Errorf("voice classifier request failed: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode >= 300 {
			io.Copy(io.Discard, response.Body)
			return fmt.Errorf("voice classifier returned status %d", response.StatusCode)
		}

		var decoded classifyResponse
		if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("failed to decode classifier response: %w", err)
		}

		verdict = models.VoiceVerdict{
			Label:      strings.ToUpper(strings.TrimSpace(decoded.Result)),
			Confidence: clamp01(decoded.Confidence),
		}
		return nil
	})
	if err != nil {
		return models.VoiceVerdict{}, err
	}

	return verdict, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
