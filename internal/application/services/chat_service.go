package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LeadPulse/leadpulse-go/internal/domain/extraction"
	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/domain/scoring"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/inference"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// Conversationalist generates assistant replies and signal analyses. It is
// satisfied by the inference client and by stubs in tests.
type Conversationalist interface {
	Converse(ctx context.Context, history []domain.Message) (string, error)
	InferSignals(ctx context.Context, history []domain.Message) (*inference.Signals, error)
}

// ChatService runs the conversational turn pipeline: locale detection,
// regex extraction, periodic signal inference, scoring, persistence, and
// the assistant reply.
type ChatService struct {
	sessions *SessionService
	leadSvc  *LeadService
	messages domain.MessageRepository
	events   domain.EventRepository
	model    Conversationalist
	logger   *logging.ChanneledLogger
}

// NewChatService creates a new chat service.
func NewChatService(
	sessions *SessionService,
	leadSvc *LeadService,
	messages domain.MessageRepository,
	events domain.EventRepository,
	model Conversationalist,
	logger *logging.ChanneledLogger,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		leadSvc:  leadSvc,
		messages: messages,
		events:   events,
		model:    model,
		logger:   logger,
	}
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	SessionID string          `json:"sessionId"`
	Reply     string          `json:"reply"`
	Language  domain.Locale   `json:"language"`
	LeadID    string          `json:"leadId,omitempty"`
	Score     int             `json:"score"`
	Priority  domain.Priority `json:"priority,omitempty"`
	Resumed   bool            `json:"resumed"`
}

// HandleTurn processes one user utterance end to end and returns the
// assistant's reply along with the lead state after the turn. Extraction
// and persistence never depend on the model being reachable: a model
// failure degrades the reply to a canned fallback and skips inference,
// but regex-extracted fields are always stored.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, userIdentifier, utterance string) (*TurnResult, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, fmt.Errorf("empty message")
	}

	session, err := s.sessions.Resolve(sessionID, userIdentifier)
	if err != nil {
		return nil, err
	}

	state, err := s.sessions.LoadState(session)
	if err != nil {
		return nil, err
	}

	locale := extraction.DetectLocale(utterance)

	userMsg := &domain.Message{
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   utterance,
		Language:  locale,
	}
	if err := s.messages.Append(userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}
	history := append(state.Messages, userMsg)

	// Regex extraction runs on every turn against a working copy of the
	// stored lead, so the partial reflects only fields still unset.
	working := domain.Lead{}
	if state.Lead != nil {
		working = *state.Lead
	}
	// Language always tracks the last-detected locale, even on a lead
	// whose other fields are frozen by first-write-wins.
	working.Language = locale
	extracted := extraction.Extract(utterance, locale, &working)
	if extracted {
		s.logger.Extraction().Debug("Fields captured",
			"sessionId", session.ID, "locale", locale, "hasContact", working.HasContact())
	}

	userTurns := s.userTurnCount(session.ID, history)
	if s.sessions.ShouldRunInference(userTurns) {
		s.runInference(ctx, session.ID, history, &working)
	}

	result := &TurnResult{
		SessionID: session.ID,
		Language:  locale,
		Resumed:   state.Resumed,
	}

	if extracted || working.HasContact() {
		scoring.Apply(&working)
		stored, err := s.leadSvc.Upsert(session.ID, domain.PartialFromLead(&working))
		if err != nil {
			return nil, err
		}
		result.LeadID = stored.ID
		result.Score = stored.Score
		result.Priority = stored.Priority
	}

	result.Reply = s.reply(ctx, history, locale, state.Resumed)

	assistantMsg := &domain.Message{
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   result.Reply,
		Language:  locale,
	}
	if err := s.messages.Append(assistantMsg); err != nil {
		s.logger.Chat().Warn("Failed to store assistant message",
			"error", err.Error(), "sessionId", session.ID)
	}

	s.sessions.Touch(session.ID, locale)

	s.logger.WithSession(logging.ChannelChat, session.ID).Info("Turn handled",
		"locale", locale,
		"userTurns", userTurns,
		"extracted", extracted,
		"score", result.Score)
	return result, nil
}

// runInference executes one signal inference pass and merges the outcome
// into working under first-write-wins. Any failure is logged and recorded;
// the turn continues with regex-extracted fields only.
func (s *ChatService) runInference(ctx context.Context, sessionID string, history []*domain.Message, working *domain.Lead) {
	transcript := make([]domain.Message, 0, len(history))
	for _, msg := range history {
		transcript = append(transcript, *msg)
	}

	signals, err := s.model.InferSignals(ctx, transcript)
	if err != nil {
		s.logger.Inference().Warn("Signal inference skipped",
			"error", err.Error(), "sessionId", sessionID)
		if storeErr := s.events.Store(&domain.Event{
			EventType: domain.EventInferenceFailed,
			SessionID: sessionID,
			Data:      fmt.Sprintf(`{"error":%q}`, err.Error()),
		}); storeErr != nil {
			s.logger.Analytics().Warn("Failed to record inference_failed event",
				"error", storeErr.Error(), "sessionId", sessionID)
		}
		return
	}

	mergeSignals(working, signals)

	if data, err := json.Marshal(signals); err == nil {
		if storeErr := s.events.Store(&domain.Event{
			EventType: domain.EventLeadUpdated,
			SessionID: sessionID,
			Data:      string(data),
		}); storeErr != nil {
			s.logger.Analytics().Warn("Failed to record inference event",
				"error", storeErr.Error(), "sessionId", sessionID)
		}
	}
}

// mergeSignals folds inferred signals into the working lead. Scalar fields
// follow first-write-wins; buying signals append with dedup. Company size
// and the model's own qualification label stay out of the lead record,
// they travel in the analytics event only.
func mergeSignals(l *domain.Lead, signals *inference.Signals) {
	if l.Interest == "" && len(signals.ImpliedInterests) > 0 {
		l.Interest = strings.Join(signals.ImpliedInterests, ", ")
	}
	if l.PainPoints == "" && len(signals.PainPoints) > 0 {
		l.PainPoints = strings.Join(signals.PainPoints, "; ")
	}
	if l.Industry == "" && signals.Industry != "" {
		l.Industry = strings.TrimSpace(signals.Industry)
	}
	for _, signal := range signals.BuyingSignals {
		l.AddBuyingSignal(strings.TrimSpace(signal))
	}
}

// reply asks the model for the next assistant message, falling back to a
// canned locale-appropriate reply when the model is unreachable.
func (s *ChatService) reply(ctx context.Context, history []*domain.Message, locale domain.Locale, resumed bool) string {
	transcript := make([]domain.Message, 0, len(history)+1)
	if resumed {
		transcript = append(transcript, domain.Message{
			Role:    domain.RoleAssistant,
			Content: "(The visitor has returned after a while. Welcome them back briefly before answering.)",
		})
	}
	for _, msg := range history {
		transcript = append(transcript, *msg)
	}

	start := time.Now()
	reply, err := s.model.Converse(ctx, transcript)
	if err != nil {
		s.logger.Chat().Warn("Model reply failed, using fallback",
			"error", err.Error(), "duration", time.Since(start))
		return inference.FallbackReply(locale)
	}
	return reply
}

// userTurnCount counts the visitor's messages across the whole session.
// The stored count keeps the inference cadence accurate past the history
// load limit; on a count failure the loaded history approximates it.
func (s *ChatService) userTurnCount(sessionID string, history []*domain.Message) int {
	if total, err := s.messages.CountBySessionID(sessionID, domain.RoleUser); err == nil {
		return total
	}
	count := 0
	for _, msg := range history {
		if msg.Role == domain.RoleUser {
			count++
		}
	}
	return count
}
