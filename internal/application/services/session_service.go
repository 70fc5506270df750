// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// SessionService handles visitor session resolution and conversation state.
type SessionService struct {
	sessions domain.SessionRepository
	messages domain.MessageRepository
	leads    domain.Repository
	events   domain.EventRepository
	logger   *logging.ChanneledLogger
}

// NewSessionService creates a new session service.
func NewSessionService(
	sessions domain.SessionRepository,
	messages domain.MessageRepository,
	leads domain.Repository,
	events domain.EventRepository,
	logger *logging.ChanneledLogger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		messages: messages,
		leads:    leads,
		events:   events,
		logger:   logger,
	}
}

// SessionState bundles everything the chat pipeline needs about one
// session: the session row, its conversation so far, and the lead
// captured from it (nil until something was extracted).
type SessionState struct {
	Session  *domain.Session
	Messages []*domain.Message
	Lead     *domain.Lead
	Resumed  bool
}

// Resolve returns the session for sessionID, creating it when it does not
// exist yet. An empty sessionID always creates a fresh session. Resolution
// is idempotent: resolving an existing ID never mutates the session beyond
// its activity timestamp.
func (s *SessionService) Resolve(sessionID, userIdentifier string) (*domain.Session, error) {
	if sessionID != "" {
		existing, err := s.sessions.FindByID(sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	session := &domain.Session{
		ID:             uuid.NewString(),
		UserIdentifier: userIdentifier,
		Language:       domain.LocaleEnglish,
		CreatedAt:      time.Now().UTC(),
		LastActive:     time.Now().UTC(),
		IsActive:       true,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.events.Store(&domain.Event{
		EventType: domain.EventSessionCreated,
		SessionID: session.ID,
	}); err != nil {
		s.logger.Analytics().Warn("Failed to record session_created event",
			"error", err.Error(), "sessionId", session.ID)
	}

	s.logger.Chat().Info("Session created", "sessionId", session.ID)
	return session, nil
}

// LoadState loads the session's conversation history and lead. Resumed is
// set when the visitor returns after being idle longer than the resume
// window, so the assistant can greet them accordingly.
func (s *SessionService) LoadState(session *domain.Session) (*SessionState, error) {
	messages, err := s.messages.FindBySessionID(session.ID, config.HistoryLoadLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	existing, err := s.leads.FindBySessionID(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead for session: %w", err)
	}

	resumed := len(messages) > 0 &&
		time.Since(session.LastActive) > config.ResumeIdleDuration

	return &SessionState{
		Session:  session,
		Messages: messages,
		Lead:     existing,
		Resumed:  resumed,
	}, nil
}

// ShouldRunInference reports whether the periodic signal inference pass is
// due after userMessageCount user messages: at least the minimum number of
// turns, and only every cadence-th message.
func (s *SessionService) ShouldRunInference(userMessageCount int) bool {
	if userMessageCount < config.InferenceMinTurns {
		return false
	}
	return userMessageCount%config.InferenceCadence == 0
}

// Touch bumps the session's activity timestamp and records the locale
// of the latest turn.
func (s *SessionService) Touch(sessionID string, locale domain.Locale) {
	if err := s.sessions.TouchActivity(sessionID, locale); err != nil {
		s.logger.Chat().Warn("Failed to touch session activity",
			"error", err.Error(), "sessionId", sessionID)
	}
}
