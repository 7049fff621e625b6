package intake

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Keyword vocabularies for the first-message language guess. Matching is by
// substring, so short words also hit inside longer ones.
var (
	portugueseWords = []string{"olá", "oi", "obrigado", "obrigada", "sim", "não", "por favor", "muito", "tudo", "bem", "você", "está", "página", "preciso", "gostaria", "quero"}
	spanishWords    = []string{"hola", "gracias", "sí", "no", "por favor", "mucho", "necesito", "quiero", "página", "web", "letrero", "diseño"}
	englishWords    = []string{"hello", "hi", "thanks", "yes", "no", "please", "need", "want", "website", "sign", "logo", "design"}
)

var lower = cases.Lower(language.Und)

// normalizeInput folds case and composes accents so "PÁGINA" typed with a
// combining mark still matches "página".
func normalizeInput(s string) string {
	return lower.String(norm.NFC.String(strings.TrimSpace(s)))
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// DetectLanguage guesses Spanish, English or Portuguese from keyword counts.
// Portuguese must beat both others; English must beat Spanish; Spanish wins
// ties and empty input.
func DetectLanguage(text string) language.Tag {
	t := normalizeInput(text)
	pt := countMatches(t, portugueseWords)
	es := countMatches(t, spanishWords)
	en := countMatches(t, englishWords)

	switch {
	case pt > es && pt > en:
		return language.Portuguese
	case en > es:
		return language.English
	default:
		return language.Spanish
	}
}

// UILanguage maps a detected language to one the site can render. Only
// Spanish and English exist in the UI, so Portuguese falls back to Spanish.
func UILanguage(tag language.Tag) language.Tag {
	if tag == language.English {
		return language.English
	}
	return language.Spanish
}

// langKey reduces a stored language code to es, en or pt
func langKey(code string) string {
	switch code {
	case "en", "pt":
		return code
	default:
		return "es"
	}
}
