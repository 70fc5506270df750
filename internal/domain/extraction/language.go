package extraction

import (
	"strings"
	"unicode"

	"github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

var spanishStopwords = map[string]struct{}{
	"el": {}, "la": {}, "es": {}, "en": {}, "de": {}, "que": {}, "y": {},
	"con": {}, "por": {}, "para": {}, "hola": {}, "soy": {}, "estoy": {},
}

// DetectLocale guesses the utterance language with cheap heuristics:
// a Han-character ratio above 0.3 means Chinese, Spanish diacritics or
// common Spanish stopwords mean Spanish, anything else falls back to
// English.
func DetectLocale(text string) lead.Locale {
	if text == "" {
		return lead.LocaleEnglish
	}

	runes := []rune(text)
	han := 0
	for _, r := range runes {
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	if float64(han) > float64(len(runes))*0.3 {
		return lead.LocaleChinese
	}

	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, "ñáéíóúü¿¡") {
		return lead.LocaleSpanish
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if _, ok := spanishStopwords[word]; ok {
			return lead.LocaleSpanish
		}
	}

	return lead.LocaleEnglish
}
