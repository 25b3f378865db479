package spamintent

import (
	"math"
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick" // Efficient Aho-Corasick implementation
	"go.uber.org/zap"

	"callguard/internal/pkg/catalog"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
)

// Scores transcripts for scam intent by layering catalog phrase matching,
// native-script keywords, and context-gated regex rules. Safe for
// concurrent use once constructed.
type Engine struct {
	catalog       catalog.Catalog
	phraseMatcher *ahocorasick.Matcher
	phraseIntents []string // pattern index -> intent name
}

// Builds a scoring engine over the given catalog. Catalog phrases are
// normalized and compiled into an Aho-Corasick matcher; phrases of two
// words or fewer are admitted only for high-risk intents.
func NewEngine(cat catalog.Catalog) *Engine {
	var patterns [][]byte
	var patternIntents []string

	// Deterministic build order across runs
	names := make([]string, 0, len(cat))
	for name := range cat {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		langs := make([]string, 0, len(cat[name].Phrases))
		for lang := range cat[name].Phrases {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		for _, lang := range langs {
			for _, phrase := range cat[name].Phrases[lang] {
				norm := Normalize(phrase)
				if norm == "" {
					continue
				}
				// Skip very short phrases to reduce false positives;
				// delivery scams need stronger context even when short.
				if len(strings.Fields(norm)) <= 2 {
					if !highRiskIntents[name] || name == intentDeliveryScam {
						continue
					}
				}
				patterns = append(patterns, []byte(norm))
				patternIntents = append(patternIntents, name)
			}
		}
	}

	var matcher *ahocorasick.Matcher
	if len(patterns) > 0 {
		matcher = ahocorasick.NewMatcher(patterns)
	}

	logger.Log.Info("Initializing spam intent engine",
		zap.Int("intent_count", len(cat)),
		zap.Int("phrase_count", len(patterns)))

	return &Engine{
		catalog:       cat,
		phraseMatcher: matcher,
		phraseIntents: patternIntents,
	}
}

// Evaluates a transcript and returns a bounded spam score, the matched
// intent names (sorted), and a coarse label. Never fails; empty or
// unmatched input yields a NORMAL CALL with score zero.
func (engine *Engine) Score(text string) models.ScoreResult {
	rawText := strings.ToLower(text)
	normText := Normalize(text)

	score := 0.0
	matched := make(map[string]struct{})

	// 0) Manual spam phrase matches (force spam); first match wins
	for _, phrase := range manualSpamPhrases {
		norm := Normalize(phrase)
		if norm != "" && strings.Contains(normText, norm) {
			matched[IntentManualSpam] = struct{}{}
			score = math.Max(score, 0.9)
			break
		}
	}

	// 1) Phrase-based matching (multi-language), one weight per intent
	if engine.phraseMatcher != nil && normText != "" {
		counted := make(map[string]struct{})
		for _, hit := range engine.phraseMatcher.Match([]byte(normText)) {
			intent := engine.phraseIntents[hit]
			if _, done := counted[intent]; done {
				continue
			}
			counted[intent] = struct{}{}
			score += engine.catalog[intent].Weight
			matched[intent] = struct{}{}
		}
	}

	// 1.5) Native-script keyword quick match (Tamil/Telugu/Malayalam);
	// may add for the same intent across languages
	for _, set := range nativeKeywords {
		for _, entry := range set.intents {
			for _, keyword := range entry.keywords {
				if strings.Contains(rawText, keyword) {
					score += 0.3
					matched[entry.intent] = struct{}{}
					break
				}
			}
		}
	}

	// 2) Regex-based semantic detection (context-aware), early exit per intent
	for _, rule := range regexRules {
		for _, pattern := range rule.patterns {
			if !pattern.MatchString(rawText) {
				continue
			}

			switch rule.intent {
			case intentMoneyLoss:
				// Strict context filtering
				if hasNonMoneyContext(normText) && !hasMoneyContext(normText) {
					continue
				}
				if !hasMoneyContext(normText) {
					continue
				}
				score += 0.2
			case intentLegalThreat:
				score += 0.25
			case intentOTPRequest, intentPINRequest:
				// High risk on any caller
				score += 0.35
			case intentDeliveryScam:
				// Plain delivery mentions are common; require scam context
				if !hasDeliveryScamContext(rawText) {
					continue
				}
				score += 0.35
			default:
				score += 0.3
			}

			matched[rule.intent] = struct{}{}
			break
		}
	}

	// Drop INSTRUCTION when only harmless phrases are present
	if _, ok := matched[intentInstruction]; ok {
		for _, phrase := range safePhrases {
			if strings.Contains(rawText, phrase) {
				delete(matched, intentInstruction)
				score = math.Max(0.0, score-0.2)
				break
			}
		}
	}

	score = math.Min(score, 1.0)

	// 3) Label logic: SPAM requires a high-risk intent or at least two
	// distinct intents, so a single noisy pass cannot escalate alone
	hasHighRisk := false
	for intent := range matched {
		if highRiskIntents[intent] {
			hasHighRisk = true
			break
		}
	}

	var label string
	switch {
	case score >= 0.6 && (hasHighRisk || len(matched) >= 2):
		label = models.LabelSpamScamCall
	case score >= 0.3:
		label = models.LabelSuspiciousCall
	default:
		label = models.LabelNormalCall
	}

	intents := make([]string, 0, len(matched))
	for intent := range matched {
		intents = append(intents, intent)
	}
	sort.Strings(intents)

	return models.ScoreResult{
		SpamScore:      math.Round(score*100) / 100,
		Label:          label,
		MatchedIntents: intents,
	}
}

func hasMoneyContext(normText string) bool {
	for _, keyword := range moneyKeywords {
		if strings.Contains(normText, keyword) {
			return true
		}
	}
	return false
}

func hasNonMoneyContext(normText string) bool {
	for _, phrase := range nonMoneyContext {
		if strings.Contains(normText, phrase) {
			return true
		}
	}
	return false
}

func hasDeliveryScamContext(rawText string) bool {
	for _, keyword := range deliveryScamContext {
		if strings.Contains(rawText, keyword) {
			return true
		}
	}
	return false
}
