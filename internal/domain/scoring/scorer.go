// Package scoring computes the deterministic lead score and priority
// tier. Score is a pure function of the lead's current field values and
// is recomputed after every mutation; it is never stored stale.
package scoring

import "github.com/LeadPulse/leadpulse-go/internal/domain/lead"

// Field weights. Each buying signal adds signalWeight up to signalCap.
const (
	emailWeight    = 30
	phoneWeight    = 20
	companyWeight  = 15
	budgetWeight   = 15
	interestWeight = 10
	nameWeight     = 10

	signalWeight = 10
	signalCap    = 30

	maxScore = 100

	highThreshold   = 70
	mediumThreshold = 40
)

// Score returns the weighted-sum score for the lead, clamped to [0,100],
// and the priority tier derived from it.
func Score(l *lead.Lead) (int, lead.Priority) {
	score := 0
	if l.Email != "" {
		score += emailWeight
	}
	if l.Phone != "" {
		score += phoneWeight
	}
	if l.Company != "" {
		score += companyWeight
	}
	if l.Budget != "" {
		score += budgetWeight
	}
	if l.Interest != "" {
		score += interestWeight
	}
	if l.Name != "" {
		score += nameWeight
	}

	signals := len(l.BuyingSignals) * signalWeight
	if signals > signalCap {
		signals = signalCap
	}
	score += signals

	if score > maxScore {
		score = maxScore
	}
	return score, PriorityFor(score)
}

// PriorityFor maps a score to its tier: >=70 high, >=40 medium, else low.
func PriorityFor(score int) lead.Priority {
	switch {
	case score >= highThreshold:
		return lead.PriorityHigh
	case score >= mediumThreshold:
		return lead.PriorityMedium
	default:
		return lead.PriorityLow
	}
}

// Apply recomputes and writes the derived fields onto the lead.
func Apply(l *lead.Lead) {
	l.Score, l.Priority = Score(l)
}
