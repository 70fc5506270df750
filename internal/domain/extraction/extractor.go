package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

const (
	minInterestLen = 5
	maxInterestLen = 100
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Extract applies the locale's rule table to one utterance and fills any
// lead fields that are still empty. Populated fields are never
// overwritten (first-write-wins); buying signals are exempt from that
// rule and accumulate as a deduplicated set. Returns true if any field
// changed.
//
// A miss is not an error: when nothing matches the lead is returned
// untouched.
func Extract(utterance string, locale lead.Locale, l *lead.Lead) bool {
	if utterance == "" {
		return false
	}

	updated := false

	if l.Email == "" {
		if match := emailPattern.FindString(utterance); match != "" {
			l.Email = strings.ToLower(match)
			updated = true
		}
	}

	if l.Phone == "" {
		pattern, ok := phonePatterns[locale]
		if !ok {
			pattern = phonePatterns[lead.LocaleEnglish]
		}
		if match := pattern.FindString(utterance); match != "" {
			if phone, ok := normalizePhone(match); ok {
				l.Phone = phone
				updated = true
			}
		}
	}

	if l.Name == "" {
		if name, ok := firstCapture(namePatterns, locale, utterance); ok {
			name = titleCase(name)
			if len([]rune(name)) >= 2 && !containsRejectToken(name) {
				l.Name = name
				updated = true
			}
		}
	}

	if l.Company == "" {
		if company, ok := firstCapture(companyPatterns, locale, utterance); ok {
			company = titleCase(company)
			if len([]rune(company)) >= 2 && !containsRejectToken(company) {
				l.Company = company
				updated = true
			}
		}
	}

	if l.Interest == "" {
		if interest, ok := firstCapture(interestPatterns, locale, utterance); ok {
			if n := len(interest); n >= minInterestLen && n <= maxInterestLen {
				l.Interest = interest
				updated = true
			}
		}
	}

	if l.Budget == "" {
		if budget, ok := firstCapture(budgetPatterns, locale, utterance); ok {
			l.Budget = strings.ReplaceAll(budget, ",", "")
			updated = true
		}
	}

	for _, rule := range signalRules {
		pattern, ok := rule.Patterns[locale]
		if !ok {
			pattern = rule.Patterns[lead.LocaleEnglish]
		}
		if pattern.MatchString(utterance) {
			if l.AddBuyingSignal(rule.Signal) {
				updated = true
			}
		}
	}

	return updated
}

// firstCapture tries the locale's patterns in priority order and returns
// the first trimmed capture group. Later candidates are discarded.
func firstCapture(table map[lead.Locale][]*regexp.Regexp, locale lead.Locale, utterance string) (string, bool) {
	for _, pattern := range localePatterns(table, locale) {
		if m := pattern.FindStringSubmatch(utterance); len(m) > 1 {
			if captured := strings.TrimSpace(m[1]); captured != "" {
				return captured, true
			}
		}
	}
	return "", false
}

// normalizePhone strips parentheses, spaces, hyphens and dots, keeping
// an optional leading +, and validates the digit count.
func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return "", false
	}
	return b.String(), true
}

func containsRejectToken(value string) bool {
	lower := strings.ToLower(value)
	for _, token := range rejectTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of each space-separated word.
// Han text has no case and passes through unchanged.
func titleCase(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
