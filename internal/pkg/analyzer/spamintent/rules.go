package spamintent

import (
	"regexp"
)

// Intent names referenced by the static rule tables.
const (
	IntentManualSpam = "MANUAL_SPAM"

	intentAccountThreat = "ACCOUNT_THREAT"
	intentMoneyLoss     = "MONEY_LOSS"
	intentLegalThreat   = "LEGAL_THREAT"
	intentOTPRequest    = "OTP_REQUEST"
	intentPINRequest    = "PIN_REQUEST"
	intentDeliveryScam  = "DELIVERY_SCAM"
	intentTooGood       = "TOO_GOOD_TO_BE_TRUE"
	intentInstruction   = "INSTRUCTION"
)

// Intents allowed to match on catalog phrases of two words or fewer, and
// the set consulted for the SPAM SCAM CALL label. The fusion engine keeps
// its own, wider high-risk set.
var highRiskIntents = map[string]bool{
	intentAccountThreat: true,
	intentMoneyLoss:     true,
	intentLegalThreat:   true,
	intentOTPRequest:    true,
	intentPINRequest:    true,
	IntentManualSpam:    true,
}

// Phrases that must always be treated as spam (exact/near-exact match).
var manualSpamPhrases = []string{
	"abhinandan aalu",
	"amazon offer",
	"me bank account kyc gadhvi movie shinde account",
	"prabhutv kotha padam malayalam smartphone",
}

// Harmless phrases that should not trigger the INSTRUCTION intent.
var safePhrases = []string{
	"call me back",
	"please call me back",
	"call me when you can",
	"please call me",
	"give me a call",
	"call me later",
	"call kar lena",
	"baad me call karna",
	"call karlena",
}

type intentKeywords struct {
	intent   string
	keywords []string
}

type nativeKeywordSet struct {
	lang    string
	intents []intentKeywords
}

// Quick native-script keyword triggers for Tamil/Telugu/Malayalam; a looser,
// lower-weight pass layered on top of the phrase and regex passes.
var nativeKeywords = []nativeKeywordSet{
	{
		lang: "ta",
		intents: []intentKeywords{
			{intentAccountThreat, []string{"கணக்கு", "முடக்க", "சஸ்பெண்ட்", "தடை", "சந்தேகம்"}},
			{intentOTPRequest, []string{"otp", "ஓடிபி", "உறுதிப்படுத்தும் குறியீடு"}},
			{intentPINRequest, []string{"pin", "பின்", "upi pin"}},
			{intentTooGood, []string{"வெற்றி", "லாட்டரி", "பரிசு", "இலவச", "ஜாக்பாட்", "கேஷ்பேக்", "ஆஃபர்"}},
			{intentMoneyLoss, []string{"பணம்", "நிதி", "ரூபாய்", "கட்டணம்", "டெபிட்", "கழித்த", "இழப்பு"}},
			{intentDeliveryScam, []string{"டெலிவரி", "பார்சல்", "சரக்கு", "கூரியர்"}},
		},
	},
	{
		lang: "te",
		intents: []intentKeywords{
			{intentAccountThreat, []string{"ఖాతా", "బ్లాక్", "సస్పెండ్", "సందేహ", "నిలిపి"}},
			{intentOTPRequest, []string{"otp", "ఓటిపి", "వెరిఫికేషన్ కోడ్"}},
			{intentPINRequest, []string{"pin", "పిన్", "upi pin", "ఎంపిన్"}},
			{intentTooGood, []string{"లాటరీ", "బహుమతి", "ఉచితం", "జాక్పాట్", "ఆఫర్", "విజేత"}},
			{intentMoneyLoss, []string{"డబ్బు", "నష్టం", "రూపాయలు", "చెల్లింపు", "డెబిట్", "కట్"}},
			{intentDeliveryScam, []string{"డెలివరీ", "ప్యాకేజీ", "పార్సెల్", "కూరియర్", "ఫీజు"}},
		},
	},
	{
		lang: "ml",
		intents: []intentKeywords{
			{intentAccountThreat, []string{"അക്കൗണ്ട്", "ബ്ലോക്ക്", "സസ്പെൻഡ്", "സംശയം", "നിർത്തലാക്കും"}},
			{intentOTPRequest, []string{"otp", "ഓടിപി", "സ്ഥിരീകരണ കോഡ്"}},
			{intentPINRequest, []string{"pin", "പിന്", "upi pin", "എംപിൻ"}},
			{intentTooGood, []string{"ലോട്ടറി", "സമ്മാനം", "ഫ്രീ", "ജാക്ക്പോട്ട്", "ഓഫർ", "വിജയി"}},
			{intentMoneyLoss, []string{"പണം", "നഷ്ടം", "രൂപ", "ചാർജ്", "ഡെബിറ്റ്", "കുറവ്"}},
			{intentDeliveryScam, []string{"ഡെലിവറി", "പാക്കേജ്", "പാർസൽ", "കൂറിയർ", "ഫീസ്"}},
		},
	},
}

// Strong money context keywords, matched against normalized text.
var moneyKeywords = []string{
	"rs", "rupee", "rupees",
	"debit", "debited", "credit", "credited",
	"withdrawn", "payment", "transaction",
	"amount", "balance", "transfer", "upi",
}

// Explicit non-money contexts (ages and durations).
var nonMoneyContext = []string{
	"years old", "year old", "age", "aged",
	"years", "months", "days",
	"minutes", "hours",
}

// Words that turn a delivery mention into a likely scam.
var deliveryScamContext = []string{
	"otp", "code", "pin", "payment", "pay", "fee", "charge",
	"refund", "cancel", "cancellation", "link", "address",
	"verification", "kyc", "hold", "blocked",
}

type regexRule struct {
	intent   string
	patterns []*regexp.Regexp
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// Ordered regex rules for semantic scam detection, evaluated against the
// raw lower-cased text with early exit per intent. \b here is an ASCII
// word boundary, so an ASCII token like "otp" also matches when it
// directly abuts a non-ASCII rune; space-separated transcripts are
// unaffected.
var regexRules = []regexRule{
	{intentLegalThreat, compilePatterns(
		`\bsocial security\b`,
		`\bssn\b`,
		`\bunder investigation\b`,
		`\blegal action\b`,
		`\blaw enforcement\b`,
		`\bpolice\b`,
		`\barrest warrant\b`,
		`\bcourt notice\b`,
		`\bgovernment office\b`,
		`\bcase registered\b`,
		`நீதிமன்றம்`,
		`சட்டம்`,
		`கோர்ட்`,
		`పోలీసు`,
		`కోర్టు`,
		`നിയമം`,
		`കോടതി`,
		`अदालत`,
		`पुलिस`,
		`कानूनी`,
	)},
	{intentMoneyLoss, compilePatterns(
		`\brs\.?\s*\d+`,
		`\brupees?\s*\d+`,
		`\b\d+\s*(?:rupees|rs\.?)`,
		`\brs\s*\d+`,
		`\brupee\s*\d+`,
		`\b\d+\s*(?:pounds|gbp)\b`,
		`\bdebited\b`,
		`\bwithdrawn\b`,
		`\bmoney taken\b`,
		`\bfunds transferred\b`,
		`\bamount deducted\b`,
		`\bpayment\b`,
		`\btransaction\b`,
		`\brefund\b`,
		`\bbank details\b`,
		`\btransfer\b`,
		`பணம்`,
		`ரூபாய்`,
		`கட்டணம்`,
		`டெபிட்`,
		`డబ్బు`,
		`రూపాయ`,
		`ചാർജ്`,
		`രൂപ`,
		`पैसा`,
		`रुपये`,
		`भुगतान`,
	)},
	{intentOTPRequest, compilePatterns(
		`\botp\b`,
		`\bone[-\s]?time password\b`,
		`\b\d{4,8}\s*digit\b`,
		`\b\d{4,8}\s*digits\b`,
		`\b\d{4,8}\b\s*(?:ka|ki)?\s*otp`,
		`\bshare\s*otp\b`,
		`\btell\s*otp\b`,
		`ஓடிபி`,
		`ఓటిపి`,
		`ഓടിപി`,
		`ओटीपी`,
	)},
	{intentPINRequest, compilePatterns(
		`\bpin\b`,
		`\bupi\s*pin\b`,
		`\btransaction\s*pin\b`,
		`\bmpin\b`,
		`\bcvv\b`,
		`\bpassword\b`,
		`பின்`,
		`పిన్`,
		`പിന്`,
		`पिन`,
	)},
	{intentDeliveryScam, compilePatterns(
		`\bdelivery\b`,
		`\bparcel\b`,
		`\bcourier\b`,
		`\bpackage\b`,
		`\bamazon\b`,
		`\bflipkart\b`,
		`\bmeesho\b`,
		`\bmyntra\b`,
		`\bdelivery\s*cancel\b`,
		`\bparcel\s*cancel\b`,
		`டெலிவரி`,
		`பார்சல்`,
		`డెలివరీ`,
		`పార్సెల్`,
		`ഡെലിവറി`,
		`പാർസൽ`,
		`डिलिवरी`,
		`पार्सल`,
	)},
	{intentAccountThreat, compilePatterns(
		`\baccount\b.*\bkyc\b`,
		`\bkyc\b.*\baccount\b`,
		`\bkyc\b`,
		`\bbank\b.*\baccount\b.*\blocked\b`,
		`\baccount\b.*\blocked\b`,
		`\baccount\b.*\blocked\b.*\bsuspicious\b`,
		`\bsuspicious activity\b`,
		`\bverify\b.*\bidentity\b`,
		`\bidentity\b.*\bverify\b`,
		`\baccount\b.*\btemporarily locked\b`,
		`\btemporarily locked\b`,
		`கணக்கு`,
		`முடக்க`,
		`సస్పెండ్`,
		`బ్లాక్`,
		`അക്കൗണ്ട്`,
		`ബ്ലോക്ക്`,
		`खाता`,
		`ब्लॉक`,
		`केवाईसी`,
	)},
	{intentTooGood, compilePatterns(
		`\bamazon\b.*\boffer\b`,
		`\boffer\b.*\bamazon\b`,
		`\blucky\s*draw\b`,
		`\blottery\b`,
		`\bjackpot\b`,
		`\bwon\b.*\bprize\b`,
		`\bcongratulations\b`,
		`\bkbc\b`,
		`\bjeet\b`,
		`\binaam\b`,
		`\binam\b`,
		`\bpuraskar\b`,
		`\btax\s*refund\b`,
		`\brefund\b`,
		`வெற்றி`,
		`லாட்டரி`,
		`பரிசு`,
		`இலவச`,
		`ஆஃபர்`,
		`கேஷ்பேக்`,
		`ലോട്ടറി`,
		`സമ്മാനം`,
		`വിജയി`,
		`ഫ്രീ`,
		`ഓഫർ`,
		`లాటరీ`,
		`బహుమతి`,
		`విజేత`,
		`ఆఫర్`,
		`लॉटरी`,
		`इनाम`,
	)},
	{intentInstruction, compilePatterns(
		`\bwhatsapp\b`,
		`\bcall\b`,
		`\bcontact\b`,
		`\bmessage\b`,
		`\bmsg\b`,
		`\bnumber\b`,
		`\bclick here\b`,
		`\bclick\b`,
		`\bregister\b`,
		`\bregistration fee\b`,
		`\bprocessing fee\b`,
		`\bpay\b.*\bfee\b`,
		`கிளிக்`,
		`அழைக்க`,
		`தொடர்பு`,
		`வாட்ஸ்அப்`,
		`பதிவு`,
		`క్లిక్`,
		`కాల్`,
		`వాట్సాప్`,
		`రెజిస్టర్`,
		`ക്ലിക്ക്`,
		`വിളിക്കുക`,
		`ബന്ധപ്പെടുക`,
		`വാട്ട്സാപ്പ്`,
		`രജിസ്റ്റർ`,
		`कॉल`,
		`क्लिक`,
		`व्हाट्सएप`,
		`रजिस्टर`,
		`संपर्क`,
	)},
}
