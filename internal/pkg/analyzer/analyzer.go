package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"

	"callguard/internal/pkg/analyzer/languagedetector"
	"callguard/internal/pkg/analyzer/spamintent"
	"callguard/internal/pkg/fusion"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/metrics"
	"callguard/internal/pkg/models"
	"callguard/internal/pkg/stt"
	"callguard/internal/pkg/voicedetect"
)

// Pipeline stages, used for error attribution.
const (
	StageTranscription  = "STT"
	StageVoiceDetection = "VOICE_DETECTION"
	StageSpamAnalysis   = "SPAM_ANALYSIS"
	StageDecision       = "DECISION"
)

// Tags a pipeline failure with the stage that produced it. The pipeline
// stops at the first failing stage; fusion never sees partial data.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Caches score results keyed by transcript so identical transcripts skip
// the scoring engine.
type ScoreCache interface {
	CachedScore(ctx context.Context, transcript string) (models.ScoreResult, bool)
	CacheScore(ctx context.Context, transcript string, result models.ScoreResult)
}

// Sequences transcription, voice detection, intent scoring, and decision
// fusion for one call recording.
type Analyzer struct {
	transcriber stt.Transcriber
	classifier  voicedetect.Classifier
	engine      *spamintent.Engine
	detector    lingua.LanguageDetector
	cache       ScoreCache
}

// Creates an Analyzer. The detector and cache are optional; pass nil to
// skip language annotation or score caching.
func New(transcriber stt.Transcriber, classifier voicedetect.Classifier, engine *spamintent.Engine,
	detector lingua.LanguageDetector, cache ScoreCache) *Analyzer {
	return &Analyzer{
		transcriber: transcriber,
		classifier:  classifier,
		engine:      engine,
		detector:    detector,
		cache:       cache,
	}
}

// Runs the full pipeline on one audio recording. External stage failures
// return a *StageError and stop the pipeline.
func (a *Analyzer) Analyze(ctx context.Context, callID, audioPath string) (models.CallAnalysis, error) {
	// Step 1: speech-to-text
	sttStart := time.Now()
	transcript, err := a.transcriber.Transcribe(ctx, audioPath)
	metrics.TranscriptionLatency.Observe(time.Since(sttStart).Seconds())
	if err != nil {
		metrics.TranscriptionFailures.Inc()
		return models.CallAnalysis{}, &StageError{Stage: StageTranscription, Err: err}
	}
	if transcript == "" {
		logger.Log.Warn("Empty transcript", zap.String("call_id", callID))
	}

	// Step 2: AI vs human voice detection
	voiceStart := time.Now()
	voice, err := a.classifier.Classify(ctx, audioPath)
	metrics.VoiceDetectionLatency.Observe(time.Since(voiceStart).Seconds())
	if err != nil {
		metrics.VoiceDetectionFailures.Inc()
		return models.CallAnalysis{}, &StageError{Stage: StageVoiceDetection, Err: err}
	}

	// Language annotation (informational only)
	language := "unknown"
	if a.detector != nil {
		language = languagedetector.DetectLanguage(a.detector, transcript)
	}

	// Step 3: spam intent scoring; identical transcripts come from cache
	var score models.ScoreResult
	if cached, ok := a.cachedScore(ctx, transcript); ok {
		metrics.ScoreCacheHits.Inc()
		score = cached
	} else {
		scoreStart := time.Now()
		score = a.engine.Score(transcript)
		metrics.ScoringLatency.Observe(time.Since(scoreStart).Seconds())
		if a.cache != nil {
			a.cache.CacheScore(ctx, transcript, score)
		}
	}
	metrics.SpamScoreHistogram.Observe(score.SpamScore)

	logger.Log.Debug("Spam intent result",
		zap.String("call_id", callID),
		zap.Float64("spam_score", score.SpamScore),
		zap.Strings("matched_intents", score.MatchedIntents),
		zap.String("label", score.Label))

	// Step 4: decision fusion
	verdict := fusion.FinalVerdict(voice.Label, voice.Confidence, score.SpamScore, score.MatchedIntents)

	metrics.CallsAnalyzed.Inc()
	metrics.VerdictsByLabel.WithLabelValues(verdict.FinalLabel).Inc()

	logger.Log.Info("Call analyzed",
		zap.String("call_id", callID),
		zap.String("voice_type", verdict.VoiceType),
		zap.String("language", language),
		zap.Int("spam_percentage", verdict.SpamPercentage),
		zap.String("final_label", verdict.FinalLabel))

	return models.CallAnalysis{
		CallID:     callID,
		AudioPath:  audioPath,
		Transcript: transcript,
		Language:   language,
		Voice:      voice,
		Score:      score,
		Verdict:    verdict,
		AnalyzedAt: time.Now(),
	}, nil
}

func (a *Analyzer) cachedScore(ctx context.Context, transcript string) (models.ScoreResult, bool) {
	if a.cache == nil {
		return models.ScoreResult{}, false
	}
	return a.cache.CachedScore(ctx, transcript)
}
