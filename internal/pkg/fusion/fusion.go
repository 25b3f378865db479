package fusion

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
)

// Intents that are never allowed to resolve to a NORMAL verdict. Wider than
// the set the scoring engine uses for its own label; the two sets are kept
// separate on purpose.
var highRiskIntents = map[string]bool{
	"ACCOUNT_THREAT": true,
	"MONEY_LOSS":     true,
	"LEGAL_THREAT":   true,
	"SEXTORTION":     true,
	"UTILITY_THREAT": true,
	"OTP_REQUEST":    true,
	"PIN_REQUEST":    true,
	"DELIVERY_SCAM":  true,
}

// Combines the voice-authenticity verdict with the spam intent score into
// one user-facing label. Pure and total: malformed inputs are clamped or
// normalized, never rejected.
func FinalVerdict(voiceType string, voiceConfidence, spamScore float64, matchedIntents []string) models.FinalVerdict {
	voiceType = strings.ToUpper(voiceType)
	spamScore = math.Max(0.0, math.Min(1.0, spamScore))
	spamPercentage := int(spamScore * 100)

	matchedSet := make(map[string]struct{}, len(matchedIntents))
	for _, intent := range matchedIntents {
		matchedSet[intent] = struct{}{}
	}

	sortedIntents := append([]string(nil), matchedIntents...)
	sort.Strings(sortedIntents)
	if sortedIntents == nil {
		sortedIntents = []string{}
	}

	logger.Log.Debug("Fusing call signals",
		zap.String("voice_type", voiceType),
		zap.Strings("matched_intents", sortedIntents),
		zap.Float64("spam_score", spamScore),
		zap.Int("spam_percentage", spamPercentage))

	hasHighRisk := false
	for intent := range matchedSet {
		if highRiskIntents[intent] {
			hasHighRisk = true
			break
		}
	}

	var finalLabel string
	switch {
	// Rule 1: any high-risk intent is never NORMAL; delivery scams are
	// always full spam
	case hasHighRisk:
		if _, ok := matchedSet["DELIVERY_SCAM"]; ok || spamScore >= 0.6 {
			finalLabel = models.VerdictSpam
		} else {
			finalLabel = models.VerdictSuspicious
		}

	// Rule 2: a high spam score alone is enough; voice type never blocks it
	case spamScore >= 0.6:
		finalLabel = models.VerdictSpam

	// Rule 3: medium spam is suspicious
	case spamScore >= 0.3:
		finalLabel = models.VerdictSuspicious

	// Rule 4: truly safe
	default:
		finalLabel = models.VerdictNormal
	}

	return models.FinalVerdict{
		VoiceType:       voiceType,
		VoiceConfidence: math.Round(voiceConfidence*1000) / 1000,
		SpamScore:       math.Round(spamScore*100) / 100,
		SpamPercentage:  spamPercentage,
		MatchedIntents:  sortedIntents,
		FinalLabel:      finalLabel,
	}
}
