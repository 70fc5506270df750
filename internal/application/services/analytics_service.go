package services

import (
	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// AnalyticsService exposes the coarse lead funnel aggregates for the
// admin dashboard.
type AnalyticsService struct {
	events domain.EventRepository
	logger *logging.ChanneledLogger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(events domain.EventRepository, logger *logging.ChanneledLogger) *AnalyticsService {
	return &AnalyticsService{
		events: events,
		logger: logger,
	}
}

// Summary aggregates leads created within the last windowDays.
func (s *AnalyticsService) Summary(windowDays int) (*domain.Summary, error) {
	return s.events.Summarize(windowDays)
}

// Record stores one analytics event.
func (s *AnalyticsService) Record(event *domain.Event) error {
	return s.events.Store(event)
}
