package lead

import "time"

// Filter narrows a lead listing. Zero values mean "no constraint".
type Filter struct {
	Priority Priority
	Status   Status
	Language Locale
	DateFrom time.Time
	DateTo   time.Time
}

// Page bounds a lead listing.
type Page struct {
	Limit  int
	Offset int
}

// Repository defines the operations for persisting Lead entities.
// Upsert is keyed by session; the leads table enforces one lead per
// session, and merge semantics are first-write-wins except for the
// derived score/priority pair which is always overwritten.
type Repository interface {
	Upsert(sessionID string, partial Partial) (string, error)
	FindByID(id string) (*Lead, error)
	FindBySessionID(sessionID string) (*Lead, error)
	List(filter Filter, page Page) ([]*Lead, error)
	UpdateStatus(leadID string, status Status, notes string) error
}

// MessageRepository defines the append-only conversation log. An empty
// role counts every message in the session.
type MessageRepository interface {
	Append(msg *Message) error
	FindBySessionID(sessionID string, limit int) ([]*Message, error)
	CountBySessionID(sessionID string, role Role) (int, error)
}

// SessionRepository defines visitor session persistence. Sessions are
// soft-retired only: MarkInactiveOlderThan flips is_active, nothing is
// ever deleted. TouchActivity also records the locale of the latest
// turn so session language always reflects the last-detected locale.
type SessionRepository interface {
	Create(session *Session) error
	FindByID(id string) (*Session, error)
	TouchActivity(id string, language Locale) error
	MarkInactiveOlderThan(cutoff time.Time) (int64, error)
}

// EventRepository defines the contract for analytics events and the
// coarse lead summary aggregation.
type EventRepository interface {
	Store(event *Event) error
	Summarize(windowDays int) (*Summary, error)
}
