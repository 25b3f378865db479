package models

import (
	"time"
)

// Voice-authenticity labels produced by the external voice classifier.
const (
	VoiceAI           = "AI"
	VoiceAILikely     = "AI_LIKELY"
	VoiceHuman        = "HUMAN"
	VoiceInvalidAudio = "INVALID_AUDIO"
)

// Coarse labels emitted by the spam intent scoring engine.
const (
	LabelSpamScamCall   = "SPAM SCAM CALL"
	LabelSuspiciousCall = "SUSPICIOUS CALL"
	LabelNormalCall     = "NORMAL CALL"
)

// User-facing labels emitted by the decision fusion engine.
const (
	VerdictSpam       = "IT IS A SPAM CALL, AVOID IT"
	VerdictSuspicious = "SUSPICIOUS CALL"
	VerdictNormal     = "NORMAL CALL"
)

// Result of scoring a single transcript for scam intent.
type ScoreResult struct {
	SpamScore      float64  `json:"spam_score"`
	Label          string   `json:"label"`
	MatchedIntents []string `json:"matched_intents"`
}

// Externally produced classification of whether the captured speech
// is synthetic or human.
type VoiceVerdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Output of the decision fusion engine.
type FinalVerdict struct {
	VoiceType       string   `json:"voice_type"`
	VoiceConfidence float64  `json:"voice_confidence"`
	SpamScore       float64  `json:"spam_score"`
	SpamPercentage  int      `json:"spam_percentage"`
	MatchedIntents  []string `json:"matched_intents"`
	FinalLabel      string   `json:"final_label"`
}

// A single audio recording queued for analysis.
type AnalysisJob struct {
	CallID    string `json:"call_id"`
	AudioPath string `json:"audio_path"`
}

// Complete output of the analysis pipeline for one call.
type CallAnalysis struct {
	CallID     string       `json:"call_id"`
	AudioPath  string       `json:"audio_path"`
	Transcript string       `json:"transcript"`
	Language   string       `json:"language"`
	Voice      VoiceVerdict `json:"voice"`
	Score      ScoreResult  `json:"score"`
	Verdict    FinalVerdict `json:"verdict"`
	AnalyzedAt time.Time    `json:"analyzed_at"`
}
