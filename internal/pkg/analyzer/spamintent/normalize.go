package spamintent

import (
	"strings"
	"unicode"
)

// Lower-cases the input and replaces every rune that is not a Unicode
// letter, digit, or underscore with a space, then collapses whitespace.
// Combining marks are not word runes, so Indic vowel signs and viramas
// split syllables into separate tokens; catalog phrases and transcripts
// both pass through here, which keeps matching and token counts aligned.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var builder strings.Builder
	builder.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			builder.WriteRune(r)
		} else {
			builder.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}
