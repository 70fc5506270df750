package services

import (
	"encoding/json"
	"fmt"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/email"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/locking"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// LeadService owns lead persistence orchestration: serialized upserts,
// operator status changes, and the high-priority notification hook.
type LeadService struct {
	leads    domain.Repository
	events   domain.EventRepository
	locks    *locking.SessionLock
	notifier email.Service
	logger   *logging.ChanneledLogger
}

// NewLeadService creates a new lead service. notifier may be nil when no
// email provider is configured; notifications are then skipped.
func NewLeadService(
	leads domain.Repository,
	events domain.EventRepository,
	locks *locking.SessionLock,
	notifier email.Service,
	logger *logging.ChanneledLogger,
) *LeadService {
	return &LeadService{
		leads:    leads,
		events:   events,
		locks:    locks,
		notifier: notifier,
		logger:   logger,
	}
}

// Upsert merges partial into the session's lead under the per-session
// lock, so concurrent turns on the same conversation cannot interleave
// their read-merge-write cycles. Returns the stored lead after the merge.
func (s *LeadService) Upsert(sessionID string, partial domain.Partial) (*domain.Lead, error) {
	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	before, err := s.leads.FindBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead before upsert: %w", err)
	}

	leadID, err := s.leads.Upsert(sessionID, partial)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert lead: %w", err)
	}

	after, err := s.leads.FindByID(leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lead after upsert: %w", err)
	}
	if after == nil {
		return nil, fmt.Errorf("lead %s vanished after upsert", leadID)
	}

	s.recordUpdate(sessionID, after)
	s.maybeNotify(before, after)
	return after, nil
}

// UpdateStatus applies an operator status change and optional note, and
// records the transition as an analytics event.
func (s *LeadService) UpdateStatus(leadID string, status domain.Status, notes string) (*domain.Lead, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid lead status %q", status)
	}

	if err := s.leads.UpdateStatus(leadID, status, notes); err != nil {
		return nil, err
	}

	updated, err := s.leads.FindByID(leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lead after status change: %w", err)
	}

	if err := s.events.Store(&domain.Event{
		EventType: domain.EventLeadStatusChanged,
		SessionID: updated.SessionID,
		LeadID:    leadID,
		Data:      fmt.Sprintf(`{"status":%q}`, status),
	}); err != nil {
		s.logger.Analytics().Warn("Failed to record lead_status_changed event",
			"error", err.Error(), "leadId", leadID)
	}

	return updated, nil
}

// Get returns one lead by ID, nil when not found.
func (s *LeadService) Get(leadID string) (*domain.Lead, error) {
	return s.leads.FindByID(leadID)
}

// List returns leads matching the filter, newest first.
func (s *LeadService) List(filter domain.Filter, page domain.Page) ([]*domain.Lead, error) {
	return s.leads.List(filter, page)
}

func (s *LeadService) recordUpdate(sessionID string, lead *domain.Lead) {
	data, _ := json.Marshal(map[string]any{
		"score":    lead.Score,
		"priority": lead.Priority,
	})
	if err := s.events.Store(&domain.Event{
		EventType: domain.EventLeadUpdated,
		SessionID: sessionID,
		LeadID:    lead.ID,
		Data:      string(data),
	}); err != nil {
		s.logger.Analytics().Warn("Failed to record lead_updated event",
			"error", err.Error(), "leadId", lead.ID)
	}
}

// maybeNotify fires the high-priority alert exactly once: when the lead
// crosses into the high tier, not on every subsequent update.
func (s *LeadService) maybeNotify(before, after *domain.Lead) {
	if s.notifier == nil {
		return
	}
	if after.Priority != domain.PriorityHigh {
		return
	}
	if before != nil && before.Priority == domain.PriorityHigh {
		return
	}

	snapshot := *after
	go func() {
		if err := s.notifier.SendHighPriorityLeadAlert(&snapshot); err != nil {
			s.logger.System().Warn("High priority lead alert failed",
				"error", err.Error(), "leadId", snapshot.ID)
		}
	}()
}
