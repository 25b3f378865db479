package spamintent

import (
	"reflect"
	"sort"
	"testing"

	"go.uber.org/zap"

	"callguard/internal/pkg/catalog"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
)

func init() {
	logger.Log = zap.NewNop() // Set up a no-op logger to avoid nil pointer dereferences in tests.
}

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.Default())
}

// Empty and whitespace-only transcripts must yield a NORMAL CALL with
// score zero and no intents.
func TestScoreEmptyInput(t *testing.T) {
	engine := defaultEngine(t)

	for _, input := range []string{"", "   ", "\t\n"} {
		result := engine.Score(input)
		if result.SpamScore != 0 {
			t.Errorf("Score(%q).SpamScore = %v, want 0", input, result.SpamScore)
		}
		if result.Label != models.LabelNormalCall {
			t.Errorf("Score(%q).Label = %q, want %q", input, result.Label, models.LabelNormalCall)
		}
		if len(result.MatchedIntents) != 0 {
			t.Errorf("Score(%q).MatchedIntents = %v, want empty", input, result.MatchedIntents)
		}
	}
}

// A classic KYC account-blocked scam must match ACCOUNT_THREAT and
// escalate to the SPAM label.
func TestScoreAccountThreatScenario(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("your bank account has been blocked due to incomplete kyc, urgent action required")

	if result.SpamScore <= 0 {
		t.Errorf("Expected positive spam score, got %v", result.SpamScore)
	}
	if !containsIntent(result.MatchedIntents, "ACCOUNT_THREAT") {
		t.Errorf("Expected ACCOUNT_THREAT in matched intents, got %v", result.MatchedIntents)
	}
	if result.Label != models.LabelSpamScamCall {
		t.Errorf("Expected label %q, got %q", models.LabelSpamScamCall, result.Label)
	}
}

// A manual override phrase forces MANUAL_SPAM with a score of at least 0.9.
func TestScoreManualOverride(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("sir this is regarding the amazon offer you won")

	if !containsIntent(result.MatchedIntents, IntentManualSpam) {
		t.Errorf("Expected MANUAL_SPAM in matched intents, got %v", result.MatchedIntents)
	}
	if result.SpamScore < 0.9 {
		t.Errorf("Expected spam score >= 0.9, got %v", result.SpamScore)
	}
	if result.Label != models.LabelSpamScamCall {
		t.Errorf("Expected label %q, got %q", models.LabelSpamScamCall, result.Label)
	}
}

// An OTP request is high risk regardless of how it is phrased.
func TestScoreOTPRequest(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("please share the otp you received on your phone now")

	if !containsIntent(result.MatchedIntents, "OTP_REQUEST") {
		t.Errorf("Expected OTP_REQUEST in matched intents, got %v", result.MatchedIntents)
	}
	if result.Label != models.LabelSpamScamCall {
		t.Errorf("Expected label %q, got %q", models.LabelSpamScamCall, result.Label)
	}
}

// Harmless callback phrases must suppress the INSTRUCTION intent.
func TestScoreSafePhraseSuppression(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("hey it is me, please call me back when you are free")

	if containsIntent(result.MatchedIntents, "INSTRUCTION") {
		t.Errorf("Expected INSTRUCTION to be suppressed, got %v", result.MatchedIntents)
	}
	if result.Label != models.LabelNormalCall {
		t.Errorf("Expected label %q, got %q", models.LabelNormalCall, result.Label)
	}
	if result.SpamScore >= 0.3 {
		t.Errorf("Expected spam score below 0.3, got %v", result.SpamScore)
	}
}

// A bare delivery mention is not a scam; the same mention plus payment
// pressure is.
func TestScoreDeliveryContextGating(t *testing.T) {
	engine := defaultEngine(t)

	benign := engine.Score("your parcel is out for delivery")
	if containsIntent(benign.MatchedIntents, "DELIVERY_SCAM") {
		t.Errorf("Expected no DELIVERY_SCAM for plain delivery mention, got %v", benign.MatchedIntents)
	}
	if benign.Label != models.LabelNormalCall {
		t.Errorf("Expected label %q, got %q", models.LabelNormalCall, benign.Label)
	}

	scam := engine.Score("your parcel is on hold, pay the fee to release it")
	if !containsIntent(scam.MatchedIntents, "DELIVERY_SCAM") {
		t.Errorf("Expected DELIVERY_SCAM, got %v", scam.MatchedIntents)
	}
	if scam.Label != models.LabelSpamScamCall {
		t.Errorf("Expected label %q, got %q", models.LabelSpamScamCall, scam.Label)
	}
}

// MONEY_LOSS needs money vocabulary in context before the regex pass counts.
func TestScoreMoneyContextGating(t *testing.T) {
	engine := defaultEngine(t)

	withContext := engine.Score("rs 5000 was debited from your card in a transaction")
	if !containsIntent(withContext.MatchedIntents, "MONEY_LOSS") {
		t.Errorf("Expected MONEY_LOSS with money context, got %v", withContext.MatchedIntents)
	}

	withoutContext := engine.Score("regarding the refund of my booking")
	if containsIntent(withoutContext.MatchedIntents, "MONEY_LOSS") {
		t.Errorf("Expected no MONEY_LOSS without money context, got %v", withoutContext.MatchedIntents)
	}
}

// A single medium-weight intent alone cannot reach the SPAM label; the
// 2-intent rule downgrades it to SUSPICIOUS.
func TestScoreSingleIntentStaysSuspicious(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("aapne lottery jeeti hai")

	if !containsIntent(result.MatchedIntents, "TOO_GOOD_TO_BE_TRUE") {
		t.Errorf("Expected TOO_GOOD_TO_BE_TRUE, got %v", result.MatchedIntents)
	}
	if result.Label != models.LabelSuspiciousCall {
		t.Errorf("Expected label %q, got %q", models.LabelSuspiciousCall, result.Label)
	}
}

// A score of exactly 0.3 must land on the SUSPICIOUS branch.
func TestScoreSuspiciousBoundary(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("urgent action required")

	if result.SpamScore != 0.3 {
		t.Fatalf("Expected spam score 0.3, got %v", result.SpamScore)
	}
	if result.Label != models.LabelSuspiciousCall {
		t.Errorf("Expected label %q, got %q", models.LabelSuspiciousCall, result.Label)
	}
}

// Native-script keywords alone must raise the score even when no catalog
// phrase matches.
func TestScoreNativeKeywords(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("మీ ఖాతా వివరాలు పంపండి")

	if !containsIntent(result.MatchedIntents, "ACCOUNT_THREAT") {
		t.Errorf("Expected ACCOUNT_THREAT from Telugu keywords, got %v", result.MatchedIntents)
	}
	if result.SpamScore <= 0 {
		t.Errorf("Expected positive score, got %v", result.SpamScore)
	}
}

// The score must stay inside [0,1] no matter how many passes fire.
func TestScoreBounds(t *testing.T) {
	engine := defaultEngine(t)

	inputs := []string{
		"",
		"hello how are you doing today",
		"share the otp and your upi pin, your account will be suspended, pay rs 10000 now, police case registered",
		"urgent action required",
		"sir this is regarding the amazon offer you won, share the otp",
	}

	for _, input := range inputs {
		result := engine.Score(input)
		if result.SpamScore < 0 || result.SpamScore > 1 {
			t.Errorf("Score(%q).SpamScore = %v, out of [0,1]", input, result.SpamScore)
		}
	}
}

// Matched intents must come back sorted and without duplicates.
func TestScoreIntentsSortedAndUnique(t *testing.T) {
	engine := defaultEngine(t)

	result := engine.Score("your parcel is on hold, pay the fee to release it")

	if !sort.StringsAreSorted(result.MatchedIntents) {
		t.Errorf("Matched intents not sorted: %v", result.MatchedIntents)
	}
	seen := make(map[string]bool)
	for _, intent := range result.MatchedIntents {
		if seen[intent] {
			t.Errorf("Duplicate intent %q in %v", intent, result.MatchedIntents)
		}
		seen[intent] = true
	}
}

// Scoring is a pure function: identical input yields identical output.
func TestScoreIdempotent(t *testing.T) {
	engine := defaultEngine(t)

	input := "your bank account has been blocked due to incomplete kyc, urgent action required"
	first := engine.Score(input)
	second := engine.Score(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Score not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// Native-script catalog phrases written as two words tokenize into many
// tokens once combining marks are split out, so the short-phrase gate must
// not drop them even for intents outside the high-risk set.
func TestScoreNativeScriptShortPhrases(t *testing.T) {
	engine := defaultEngine(t)

	tamil := engine.Score("மின்சாரம் துண்டிக்கப்படும்")
	if !containsIntent(tamil.MatchedIntents, "UTILITY_THREAT") {
		t.Errorf("Expected UTILITY_THREAT from Tamil phrase, got %v", tamil.MatchedIntents)
	}
	if tamil.SpamScore != 0.45 {
		t.Errorf("Expected spam score 0.45, got %v", tamil.SpamScore)
	}
	if tamil.Label != models.LabelSuspiciousCall {
		t.Errorf("Expected label %q, got %q", models.LabelSuspiciousCall, tamil.Label)
	}

	malayalam := engine.Score("വൈദ്യുതി വിച്ഛേദിക്കപ്പെടും")
	if !containsIntent(malayalam.MatchedIntents, "UTILITY_THREAT") {
		t.Errorf("Expected UTILITY_THREAT from Malayalam phrase, got %v", malayalam.MatchedIntents)
	}
	if malayalam.Label != models.LabelSuspiciousCall {
		t.Errorf("Expected label %q, got %q", models.LabelSuspiciousCall, malayalam.Label)
	}
}

// Phrases of two words or fewer only count for high-risk intents: a short
// catalog phrase for a low-risk intent must be ignored at build time.
func TestShortPhraseSkippedForLowRiskIntents(t *testing.T) {
	cat := catalog.Catalog{
		"TOO_GOOD_TO_BE_TRUE": {
			Weight:  0.4,
			Phrases: map[string][]string{"en": {"free gift"}},
		},
		"OTP_REQUEST": {
			Weight:  0.5,
			Phrases: map[string][]string{"en": {"give otp"}},
		},
	}
	engine := NewEngine(cat)

	lowRisk := engine.Score("there is a free gift for everyone attending")
	if containsIntent(lowRisk.MatchedIntents, "TOO_GOOD_TO_BE_TRUE") {
		t.Errorf("Short low-risk phrase should be skipped, got %v", lowRisk.MatchedIntents)
	}

	highRisk := engine.Score("just give otp to confirm")
	if !containsIntent(highRisk.MatchedIntents, "OTP_REQUEST") {
		t.Errorf("Short high-risk phrase should match, got %v", highRisk.MatchedIntents)
	}
}

func containsIntent(intents []string, want string) bool {
	for _, intent := range intents {
		if intent == want {
			return true
		}
	}
	return false
}
