package languagedetector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"

	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/metrics"
)

// Builds a detector restricted to the languages the intent catalog covers.
// Malayalam is not supported by lingua, so Malayalam transcripts resolve to
// the closest scripted neighbour; the annotation is informational only and
// never gates scoring.
func New() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Hindi,
			lingua.Tamil,
			lingua.Telugu,
		).
		WithPreloadedLanguageModels().
		Build()
}

// Detects the dominant language of a transcript and returns the ISO 639-1
// code, or "unknown" when the text is too short or detection fails.
func DetectLanguage(detector lingua.LanguageDetector, text string) string {
	const minTextLength = 20
	if len(text) < minTextLength {
		return "unknown"
	}

	detected, exists := detector.DetectLanguageOf(text)
	if !exists {
		metrics.LanguageDetectionFailures.Inc()
		logger.Log.Debug("Language detection failed",
			zap.Int("transcript_length", len(text)))
		return "unknown"
	}

	code := strings.ToLower(detected.IsoCode639_1().String())

	logger.Log.Debug("Language detection result",
		zap.String("detected_language", detected.String()),
		zap.String("iso_code", code))

	return code
}
