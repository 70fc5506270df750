package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

func TestExtract_EnglishNameAndEmail(t *testing.T) {
	var l lead.Lead
	updated := Extract("My name is Alice, my email is alice@example.com", lead.LocaleEnglish, &l)

	require.True(t, updated)
	assert.Equal(t, "Alice", l.Name)
	assert.Equal(t, "alice@example.com", l.Email)
	assert.Empty(t, l.Phone)
	assert.Empty(t, l.Company)
}

func TestExtract_EmailLowercased(t *testing.T) {
	var l lead.Lead
	Extract("Reach me at Bob.Smith@Example.COM", lead.LocaleEnglish, &l)

	assert.Equal(t, "bob.smith@example.com", l.Email)
}

func TestExtract_PhoneNormalization(t *testing.T) {
	var l lead.Lead
	updated := Extract("call me at (415) 555-0123 anytime", lead.LocaleEnglish, &l)

	require.True(t, updated)
	assert.Equal(t, "4155550123", l.Phone)
}

func TestExtract_PhoneKeepsLeadingPlus(t *testing.T) {
	var l lead.Lead
	Extract("my number is +86 138 0013 8000", lead.LocaleEnglish, &l)

	assert.Equal(t, "+8613800138000", l.Phone)
}

func TestExtract_PhoneRejectsShortDigitRuns(t *testing.T) {
	var l lead.Lead
	updated := Extract("we are a team of 12", lead.LocaleEnglish, &l)

	assert.False(t, updated)
	assert.Empty(t, l.Phone)
}

func TestExtract_CompanyCapture(t *testing.T) {
	var l lead.Lead
	Extract("I work at Acme Corp, in the platform team", lead.LocaleEnglish, &l)

	assert.Equal(t, "Acme Corp", l.Company)
}

func TestExtract_InterestAndPricingSignal(t *testing.T) {
	var l lead.Lead
	updated := Extract("I am interested in pricing for the enterprise plan", lead.LocaleEnglish, &l)

	require.True(t, updated)
	// "interested" must not be mistaken for a name.
	assert.Empty(t, l.Name)
	assert.NotEmpty(t, l.Interest)
	assert.Contains(t, l.BuyingSignals, "pricing_inquiry")
}

func TestExtract_BudgetStripsCommas(t *testing.T) {
	var l lead.Lead
	Extract("our budget is around $12,000 for this year", lead.LocaleEnglish, &l)

	assert.Equal(t, "12000", l.Budget)
	assert.Contains(t, l.BuyingSignals, "budget_authority")
}

func TestExtract_RejectTokensSuppressNames(t *testing.T) {
	var l lead.Lead
	Extract("My name is Email Address", lead.LocaleEnglish, &l)

	assert.Empty(t, l.Name)
}

func TestExtract_FirstWriteWins(t *testing.T) {
	var l lead.Lead
	Extract("my email is first@example.com", lead.LocaleEnglish, &l)
	updated := Extract("my email is second@example.com", lead.LocaleEnglish, &l)

	assert.False(t, updated)
	assert.Equal(t, "first@example.com", l.Email)
}

func TestExtract_SignalsDeduplicate(t *testing.T) {
	var l lead.Lead
	Extract("how much does it cost?", lead.LocaleEnglish, &l)
	Extract("what is the price?", lead.LocaleEnglish, &l)

	assert.Equal(t, []string{"pricing_inquiry"}, l.BuyingSignals)
}

func TestExtract_SignalsAccumulateAcrossCategories(t *testing.T) {
	var l lead.Lead
	Extract("what's the pricing? we need to get started asap, budget is approved", lead.LocaleEnglish, &l)

	assert.Contains(t, l.BuyingSignals, "pricing_inquiry")
	assert.Contains(t, l.BuyingSignals, "timeline_urgency")
	assert.Contains(t, l.BuyingSignals, "budget_authority")
}

func TestExtract_SpanishScenario(t *testing.T) {
	var l lead.Lead
	utterance := "Hola, soy Carlos y estoy interesado en marketing digital, mi presupuesto es 500"
	updated := Extract(utterance, lead.LocaleSpanish, &l)

	require.True(t, updated)
	assert.Equal(t, "Carlos", l.Name)
	assert.Contains(t, l.Interest, "marketing")
	assert.Equal(t, "500", l.Budget)
	assert.Contains(t, l.BuyingSignals, "budget_authority")
}

func TestExtract_ChineseScenario(t *testing.T) {
	var l lead.Lead
	updated := Extract("我叫李明，我对营销自动化很感兴趣", lead.LocaleChinese, &l)

	require.True(t, updated)
	assert.Equal(t, "李明", l.Name)
	assert.Equal(t, "营销自动化", l.Interest)
}

func TestExtract_ChineseBudgetAndSignal(t *testing.T) {
	var l lead.Lead
	Extract("我们的预算是50000元", lead.LocaleChinese, &l)

	assert.Equal(t, "50000", l.Budget)
	assert.Contains(t, l.BuyingSignals, "budget_authority")
}

func TestExtract_EmptyUtterance(t *testing.T) {
	var l lead.Lead
	assert.False(t, Extract("", lead.LocaleEnglish, &l))
}

func TestExtract_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	var l lead.Lead
	Extract("my email is fallback@example.com", lead.Locale("fr"), &l)

	assert.Equal(t, "fallback@example.com", l.Email)
}
