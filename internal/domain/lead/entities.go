// Package lead defines the core domain entities for the conversational
// lead capture engine: the Lead record, its conversation Messages, and
// the visitor Session that binds them together.
package lead

import "time"

// Locale identifies one of the supported conversation languages.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleChinese Locale = "zh"
	LocaleSpanish Locale = "es"
)

// IsValid reports whether l is one of the supported locales.
func (l Locale) IsValid() bool {
	switch l {
	case LocaleEnglish, LocaleChinese, LocaleSpanish:
		return true
	}
	return false
}

// Priority is the tier derived from the lead score. It is never set
// directly; the scorer owns it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the operator-controlled lifecycle state of a lead.
// Extraction and inference never touch it.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// IsValid reports whether s is a known lead status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Lead is the structured record of one visitor's captured contact and
// qualification data. There is at most one Lead per session.
//
// Contact and qualification fields follow a first-write-wins policy:
// once populated by extraction or inference they are never overwritten,
// only an explicit operator correction may change them. BuyingSignals is
// the one exception, an append-only deduplicated set.
type Lead struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`

	// Contact fields
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`

	// Qualification fields
	Interest      string   `json:"interest,omitempty"`
	Budget        string   `json:"budget,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	PainPoints    string   `json:"painPoints,omitempty"`
	BuyingSignals []string `json:"buyingSignals,omitempty"`

	// Derived fields, owned by the scorer
	Score    int      `json:"score"`
	Priority Priority `json:"priority"`

	// Operator-owned
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`

	Language  Locale    `json:"language"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasContact reports whether any contact field has been captured yet.
// The store only upserts a lead once something was captured.
func (l *Lead) HasContact() bool {
	return l.Name != "" || l.Email != "" || l.Phone != "" || l.Company != "" ||
		l.Interest != "" || l.Budget != "" || l.Industry != "" ||
		l.PainPoints != "" || len(l.BuyingSignals) > 0
}

// AddBuyingSignal appends signal to the lead's buying-signal set,
// deduplicating by exact string. Returns true if the set grew.
func (l *Lead) AddBuyingSignal(signal string) bool {
	if signal == "" {
		return false
	}
	for _, s := range l.BuyingSignals {
		if s == signal {
			return false
		}
	}
	l.BuyingSignals = append(l.BuyingSignals, signal)
	return true
}

// Partial carries field values to be merged into a stored lead under the
// first-write-wins rule. Empty strings mean "no value"; Score and
// Priority always overwrite.
type Partial struct {
	Name          string
	Email         string
	Phone         string
	Company       string
	Interest      string
	Budget        string
	Industry      string
	PainPoints    string
	BuyingSignals []string
	Score         int
	Priority      Priority
	Language      Locale
	Source        string
}

// IsEmpty reports whether the partial carries no field values at all.
func (p *Partial) IsEmpty() bool {
	return p.Name == "" && p.Email == "" && p.Phone == "" && p.Company == "" &&
		p.Interest == "" && p.Budget == "" && p.Industry == "" &&
		p.PainPoints == "" && len(p.BuyingSignals) == 0
}

// PartialFromLead projects a lead's extractable fields into a Partial for
// the upsert path.
func PartialFromLead(l *Lead) Partial {
	return Partial{
		Name:          l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		Company:       l.Company,
		Interest:      l.Interest,
		Budget:        l.Budget,
		Industry:      l.Industry,
		PainPoints:    l.PainPoints,
		BuyingSignals: l.BuyingSignals,
		Score:         l.Score,
		Priority:      l.Priority,
		Language:      l.Language,
		Source:        l.Source,
	}
}

// Message is one immutable conversation turn, ordered by CreatedAt.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Language  Locale    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is one visitor conversation. Sessions are never deleted; the
// retention sweep only flips IsActive.
type Session struct {
	ID             string    `json:"id"`
	UserIdentifier string    `json:"userIdentifier"`
	Language       Locale    `json:"language"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActive     time.Time `json:"lastActive"`
	IsActive       bool      `json:"isActive"`
}

// Event is a coarse analytics event tied to a session and optionally a lead.
type Event struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType"`
	SessionID string    `json:"sessionId,omitempty"`
	LeadID    string    `json:"leadId,omitempty"`
	Data      string    `json:"data,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Analytics event types written by the engine.
const (
	EventSessionCreated    = "session_created"
	EventLeadUpdated       = "lead_updated"
	EventLeadStatusChanged = "lead_status_changed"
	EventInferenceFailed   = "inference_failed"
)

// Summary is the coarse aggregate over leads created in a window.
type Summary struct {
	TotalLeads      int            `json:"totalLeads"`
	LeadsByPriority map[string]int `json:"leadsByPriority"`
	LeadsByLanguage map[string]int `json:"leadsByLanguage"`
	AverageScore    float64        `json:"averageScore"`
	PeriodDays      int            `json:"periodDays"`
}
