package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

func TestParseSignals_PlainJSON(t *testing.T) {
	raw := `{"implied_interests":["automation"],"pain_points":["manual reporting"],"industry":"SaaS","company_size":"50-200","buying_signals":["pricing_inquiry"],"lead_qualification":"warm"}`

	signals, err := ParseSignals(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"automation"}, signals.ImpliedInterests)
	assert.Equal(t, "SaaS", signals.Industry)
	assert.Equal(t, "warm", signals.LeadQualification)
}

func TestParseSignals_MarkdownFenced(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"industry\":\"Retail\",\"buying_signals\":[]}\n```\nLet me know if you need more."

	signals, err := ParseSignals(raw)
	require.NoError(t, err)
	assert.Equal(t, "Retail", signals.Industry)
	assert.Empty(t, signals.BuyingSignals)
}

func TestParseSignals_NoJSON(t *testing.T) {
	_, err := ParseSignals("I could not analyze the conversation.")
	assert.Error(t, err)
}

func TestParseSignals_MalformedJSON(t *testing.T) {
	_, err := ParseSignals(`{"industry": }`)
	assert.Error(t, err)
}

func TestParseSignals_MissingKeysAreZero(t *testing.T) {
	signals, err := ParseSignals(`{}`)
	require.NoError(t, err)
	assert.Empty(t, signals.ImpliedInterests)
	assert.Empty(t, signals.Industry)
}

func TestFallbackReply_PerLocale(t *testing.T) {
	assert.Contains(t, FallbackReply(domain.LocaleSpanish), "Gracias")
	assert.Contains(t, FallbackReply(domain.LocaleChinese), "感谢")
	assert.Contains(t, FallbackReply(domain.LocaleEnglish), "Thanks")
	assert.Equal(t, FallbackReply(domain.LocaleEnglish), FallbackReply(domain.Locale("fr")))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{Model: "gpt-4o"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
