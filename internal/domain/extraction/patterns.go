// Package extraction implements the deterministic pattern layer of the
// lead capture engine: per-locale regular-expression rule tables that
// pull structured fields out of a single visitor utterance.
package extraction

import (
	"regexp"

	"github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

// emailPattern is locale-independent. Captures are lower-cased on store.
var emailPattern = regexp.MustCompile(`(?i)[\w.+%-]+@[\w.-]+\.[a-z]{2,}`)

// phonePatterns match digit runs of plausible phone length with optional
// leading + and common separators. Captured values are normalized by
// stripping parentheses, spaces and hyphens, then validated to 7-15 digits.
var phonePatterns = map[lead.Locale]*regexp.Regexp{
	lead.LocaleEnglish: regexp.MustCompile(`\+?\d[\d()\s.-]{5,18}\d`),
	lead.LocaleChinese: regexp.MustCompile(`\+?\d[\d()\s.-]{5,18}\d`),
	lead.LocaleSpanish: regexp.MustCompile(`\+?\d[\d()\s.-]{5,18}\d`),
}

// Trigger-phrase tables. Patterns are tried in order; the first match
// wins and the remaining candidates are discarded. That ambiguity is a
// documented property of the rule table, not a defect.

var namePatterns = map[lead.Locale][]*regexp.Regexp{
	lead.LocaleEnglish: {
		regexp.MustCompile(`(?i)my\s+name\s+is\s+([A-Za-z][A-Za-z\s'-]{0,40}?)(?:[,.!]|\s+and\b|\s+my\b|$)`),
		regexp.MustCompile(`\b[Ii]\s+am\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
		regexp.MustCompile(`\b[Ii]'m\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
		regexp.MustCompile(`(?i)call\s+me\s+([A-Za-z][A-Za-z\s'-]{0,40}?)(?:[,.!]|$)`),
	},
	lead.LocaleChinese: {
		regexp.MustCompile(`我叫\s*([\p{Han}]{1,6})`),
		regexp.MustCompile(`我的名字是\s*([\p{Han}]{1,6})`),
		regexp.MustCompile(`我是\s*([\p{Han}]{1,6})`),
	},
	lead.LocaleSpanish: {
		regexp.MustCompile(`(?i)me\s+llamo\s+([A-Za-zÁÉÍÓÚÑáéíóúñ][A-Za-zÁÉÍÓÚÑáéíóúñ\s'-]{0,40}?)(?:[,.!]|$)`),
		regexp.MustCompile(`(?i)mi\s+nombre\s+es\s+([A-Za-zÁÉÍÓÚÑáéíóúñ][A-Za-zÁÉÍÓÚÑáéíóúñ\s'-]{0,40}?)(?:[,.!]|$)`),
		regexp.MustCompile(`\b[Ss]oy\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñ]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+)?)\b`),
	},
}

var companyPatterns = map[lead.Locale][]*regexp.Regexp{
	lead.LocaleEnglish: {
		regexp.MustCompile(`(?i)(?:work\s+at|work\s+for)\s+([A-Za-z0-9][A-Za-z0-9\s&.'-]{1,40}?)(?:[,.!]|\s+and\b|$)`),
		regexp.MustCompile(`(?i)my\s+company\s+is\s+([A-Za-z0-9][A-Za-z0-9\s&.'-]{1,40}?)(?:[,.!]|$)`),
		regexp.MustCompile(`(?i)(?:from|with)\s+the\s+company\s+([A-Za-z0-9][A-Za-z0-9\s&.'-]{1,40}?)(?:[,.!]|$)`),
	},
	lead.LocaleChinese: {
		regexp.MustCompile(`在\s*([\p{Han}A-Za-z0-9]{2,12})\s*(?:工作|上班)`),
		regexp.MustCompile(`我们公司是\s*([\p{Han}A-Za-z0-9]{2,12})`),
		regexp.MustCompile(`我的公司是\s*([\p{Han}A-Za-z0-9]{2,12})`),
	},
	lead.LocaleSpanish: {
		regexp.MustCompile(`(?i)trabajo\s+(?:en|para)\s+([A-Za-z0-9ÁÉÍÓÚÑáéíóúñ][A-Za-z0-9ÁÉÍÓÚÑáéíóúñ\s&.'-]{1,40}?)(?:[,.!]|$)`),
		regexp.MustCompile(`(?i)mi\s+empresa\s+es\s+([A-Za-z0-9ÁÉÍÓÚÑáéíóúñ][A-Za-z0-9ÁÉÍÓÚÑáéíóúñ\s&.'-]{1,40}?)(?:[,.!]|$)`),
	},
}

var interestPatterns = map[lead.Locale][]*regexp.Regexp{
	lead.LocaleEnglish: {
		regexp.MustCompile(`(?i)interested\s+in\s+(.{2,120}?)(?:[,.!?]|$)`),
		regexp.MustCompile(`(?i)looking\s+for\s+(.{2,120}?)(?:[,.!?]|$)`),
		regexp.MustCompile(`(?i)need\s+help\s+with\s+(.{2,120}?)(?:[,.!?]|$)`),
	},
	lead.LocaleChinese: {
		regexp.MustCompile(`对\s*(.{2,60}?)\s*(?:很|非常)?感兴趣`),
		regexp.MustCompile(`我想要\s*(.{2,60}?)(?:[，。！？]|$)`),
		regexp.MustCompile(`需要\s*(.{2,60}?)(?:[，。！？]|$)`),
	},
	lead.LocaleSpanish: {
		regexp.MustCompile(`(?i)interesad[oa]\s+en\s+(.{2,120}?)(?:[,.!?]|$)`),
		regexp.MustCompile(`(?i)me\s+interesa\s+(.{2,120}?)(?:[,.!?]|$)`),
		regexp.MustCompile(`(?i)busco\s+(.{2,120}?)(?:[,.!?]|$)`),
	},
}

// budgetPatterns capture a numeric amount in a currency or budget
// context. Only the bare number is stored; the currency symbol is a
// presentation concern.
var budgetPatterns = map[lead.Locale][]*regexp.Regexp{
	lead.LocaleEnglish: {
		regexp.MustCompile(`(?i)budget\s+(?:is|of|around|about)?\s*\$?\s*([\d,]+(?:\.\d+)?)[kK]?`),
		regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)[kK]?`),
		regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:usd|dollars)`),
	},
	lead.LocaleChinese: {
		regexp.MustCompile(`预算\s*(?:是|大概|大约)?\s*[¥￥]?\s*([\d,]+(?:\.\d+)?)\s*[万元块]?`),
		regexp.MustCompile(`[¥￥]\s*([\d,]+(?:\.\d+)?)`),
	},
	lead.LocaleSpanish: {
		regexp.MustCompile(`(?i)presupuesto\s+(?:es|de|alrededor\s+de)?\s*[€$]?\s*([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`[€]\s*([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:euros|dólares|dolares)`),
	},
}

// Buying-signal trigger categories. Unlike field capture these are not
// first-write-wins: every category that matches appends one distinct
// signal string per message.
type signalRule struct {
	Signal   string
	Patterns map[lead.Locale]*regexp.Regexp
}

var signalRules = []signalRule{
	{
		Signal: "pricing_inquiry",
		Patterns: map[lead.Locale]*regexp.Regexp{
			lead.LocaleEnglish: regexp.MustCompile(`(?i)\b(?:price|pricing|cost|how\s+much|quote|demo|trial)\b`),
			lead.LocaleChinese: regexp.MustCompile(`价格|多少钱|报价|费用|演示|试用`),
			lead.LocaleSpanish: regexp.MustCompile(`(?i)precio|cu[áa]nto\s+cuesta|cotizaci[óo]n|demostraci[óo]n|prueba`),
		},
	},
	{
		Signal: "timeline_urgency",
		Patterns: map[lead.Locale]*regexp.Regexp{
			lead.LocaleEnglish: regexp.MustCompile(`(?i)\b(?:asap|urgent|soon|this\s+(?:week|month|quarter)|get\s+started|onboard(?:ing)?|timeline)\b`),
			lead.LocaleChinese: regexp.MustCompile(`尽快|紧急|马上|这个月|本季度|开始使用|什么时候`),
			lead.LocaleSpanish: regexp.MustCompile(`(?i)urgente|pronto|cuanto\s+antes|este\s+mes|empezar|comenzar`),
		},
	},
	{
		Signal: "budget_authority",
		Patterns: map[lead.Locale]*regexp.Regexp{
			lead.LocaleEnglish: regexp.MustCompile(`(?i)\b(?:budget|approved|decision\s+maker|i\s+decide|purchasing|procurement)\b`),
			lead.LocaleChinese: regexp.MustCompile(`预算|决策|采购|我来决定|负责人`),
			lead.LocaleSpanish: regexp.MustCompile(`(?i)presupuesto|aprobado|decisi[óo]n|yo\s+decido|compras`),
		},
	},
}

// rejectTokens suppress false positives in name and company captures.
var rejectTokens = []string{"email", "phone", "number", "address"}

func localePatterns(table map[lead.Locale][]*regexp.Regexp, locale lead.Locale) []*regexp.Regexp {
	if patterns, ok := table[locale]; ok {
		return patterns
	}
	return table[lead.LocaleEnglish]
}
