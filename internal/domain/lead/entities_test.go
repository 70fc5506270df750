package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddBuyingSignal(t *testing.T) {
	var l Lead

	assert.True(t, l.AddBuyingSignal("pricing_inquiry"))
	assert.False(t, l.AddBuyingSignal("pricing_inquiry"), "duplicates are rejected")
	assert.False(t, l.AddBuyingSignal(""), "empty signals are rejected")
	assert.True(t, l.AddBuyingSignal("timeline_urgency"))

	assert.Equal(t, []string{"pricing_inquiry", "timeline_urgency"}, l.BuyingSignals)
}

func TestHasContact(t *testing.T) {
	assert.False(t, (&Lead{}).HasContact())
	assert.True(t, (&Lead{Email: "a@b.com"}).HasContact())
	assert.True(t, (&Lead{BuyingSignals: []string{"pricing_inquiry"}}).HasContact())
	assert.True(t, (&Lead{Interest: "automation"}).HasContact())
}

func TestPartialIsEmpty(t *testing.T) {
	assert.True(t, (&Partial{}).IsEmpty())
	assert.True(t, (&Partial{Score: 50, Priority: PriorityMedium}).IsEmpty(),
		"derived fields alone do not make a partial")
	assert.False(t, (&Partial{Name: "Alice"}).IsEmpty())
	assert.False(t, (&Partial{BuyingSignals: []string{"x"}}).IsEmpty())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("archived").IsValid())
}

func TestLocaleIsValid(t *testing.T) {
	assert.True(t, LocaleEnglish.IsValid())
	assert.True(t, LocaleChinese.IsValid())
	assert.True(t, LocaleSpanish.IsValid())
	assert.False(t, Locale("fr").IsValid())
}

func TestPartialFromLead(t *testing.T) {
	l := &Lead{
		Name:          "Alice",
		Email:         "a@b.com",
		BuyingSignals: []string{"pricing_inquiry"},
		Score:         40,
		Priority:      PriorityMedium,
		Language:      LocaleEnglish,
	}

	p := PartialFromLead(l)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, []string{"pricing_inquiry"}, p.BuyingSignals)
	assert.Equal(t, 40, p.Score)
	assert.Equal(t, PriorityMedium, p.Priority)
}
