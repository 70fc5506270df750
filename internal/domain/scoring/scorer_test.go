package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

func TestScore_FieldWeights(t *testing.T) {
	tests := []struct {
		name         string
		lead         lead.Lead
		wantScore    int
		wantPriority lead.Priority
	}{
		{"empty lead", lead.Lead{}, 0, lead.PriorityLow},
		{"email only", lead.Lead{Email: "a@b.com"}, 30, lead.PriorityLow},
		{"phone only", lead.Lead{Phone: "4155550123"}, 20, lead.PriorityLow},
		{"name only", lead.Lead{Name: "Alice"}, 10, lead.PriorityLow},
		{
			"email and name hits medium boundary",
			lead.Lead{Email: "a@b.com", Name: "Alice"},
			40, lead.PriorityMedium,
		},
		{
			"just under high boundary",
			lead.Lead{Email: "a@b.com", Phone: "4155550123", Interest: "automation"},
			60, lead.PriorityMedium,
		},
		{
			"high boundary",
			lead.Lead{Email: "a@b.com", Phone: "4155550123", Interest: "automation", Name: "Alice"},
			70, lead.PriorityHigh,
		},
		{
			"all fields clamp to 100",
			lead.Lead{
				Name: "Alice", Email: "a@b.com", Phone: "4155550123",
				Company: "Acme", Interest: "automation", Budget: "5000",
				BuyingSignals: []string{"pricing_inquiry", "timeline_urgency", "budget_authority"},
			},
			100, lead.PriorityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, priority := Score(&tt.lead)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantPriority, priority)
		})
	}
}

func TestScore_SignalCap(t *testing.T) {
	l := lead.Lead{BuyingSignals: []string{"a", "b", "c", "d", "e"}}
	score, _ := Score(&l)
	assert.Equal(t, 30, score, "signals cap at 30 regardless of count")
}

func TestScore_IsPure(t *testing.T) {
	l := lead.Lead{Email: "a@b.com", Name: "Alice"}
	first, _ := Score(&l)
	second, _ := Score(&l)

	assert.Equal(t, first, second)
	assert.Zero(t, l.Score, "Score must not mutate the lead")
}

func TestPriorityFor_Boundaries(t *testing.T) {
	assert.Equal(t, lead.PriorityLow, PriorityFor(39))
	assert.Equal(t, lead.PriorityMedium, PriorityFor(40))
	assert.Equal(t, lead.PriorityMedium, PriorityFor(69))
	assert.Equal(t, lead.PriorityHigh, PriorityFor(70))
}

func TestApply_WritesDerivedFields(t *testing.T) {
	l := lead.Lead{Email: "a@b.com", Name: "Alice"}
	Apply(&l)

	assert.Equal(t, 40, l.Score)
	assert.Equal(t, lead.PriorityMedium, l.Priority)
}
