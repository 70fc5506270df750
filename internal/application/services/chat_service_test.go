package services

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/inference"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/locking"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/analytics"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	leadrepo "github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/lead"
)

// stubModel is a scripted Conversationalist for pipeline tests.
type stubModel struct {
	reply       string
	converseErr error
	signals     *inference.Signals
	signalsErr  error
	inferCalls  int
}

func (m *stubModel) Converse(ctx context.Context, history []domain.Message) (string, error) {
	if m.converseErr != nil {
		return "", m.converseErr
	}
	return m.reply, nil
}

func (m *stubModel) InferSignals(ctx context.Context, history []domain.Message) (*inference.Signals, error) {
	m.inferCalls++
	if m.signalsErr != nil {
		return nil, m.signalsErr
	}
	return m.signals, nil
}

type testEnv struct {
	chat     *ChatService
	sessions *SessionService
	leads    domain.Repository
	messages domain.MessageRepository
	sessRepo domain.SessionRepository
	events   domain.EventRepository
	model    *stubModel
	db       *database.DB
}

func newTestEnv(t *testing.T, model *stubModel) *testEnv {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))

	leads := leadrepo.NewSQLLeadRepository(db, logger)
	messages := leadrepo.NewSQLMessageRepository(db, logger)
	sessions := leadrepo.NewSQLSessionRepository(db, logger)
	events := analytics.NewSQLEventRepository(db, logger)

	sessionService := NewSessionService(sessions, messages, leads, events, logger)
	leadService := NewLeadService(leads, events, locking.NewSessionLock(), nil, logger)
	chatService := NewChatService(sessionService, leadService, messages, events, model, logger)

	return &testEnv{
		chat:     chatService,
		sessions: sessionService,
		leads:    leads,
		messages: messages,
		sessRepo: sessions,
		events:   events,
		model:    model,
		db:       db,
	}
}

func TestHandleTurn_ExtractsAndPersists(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "Nice to meet you, Alice!"})

	result, err := env.chat.HandleTurn(context.Background(), "", "visitor-1",
		"My name is Alice, my email is alice@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "Nice to meet you, Alice!", result.Reply)
	assert.Equal(t, domain.LocaleEnglish, result.Language)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, domain.PriorityMedium, result.Priority)

	stored, err := env.leads.FindBySessionID(result.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "alice@example.com", stored.Email)

	history, err := env.messages.FindBySessionID(result.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestHandleTurn_NoContactNoLead(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "How can I help?"})

	result, err := env.chat.HandleTurn(context.Background(), "", "visitor-1", "hello there")
	require.NoError(t, err)
	assert.Empty(t, result.LeadID)

	stored, err := env.leads.FindBySessionID(result.SessionID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestHandleTurn_ModelFailureUsesFallbackButPersists(t *testing.T) {
	env := newTestEnv(t, &stubModel{converseErr: errors.New("upstream timeout")})

	result, err := env.chat.HandleTurn(context.Background(), "", "visitor-1",
		"my email is alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, inference.FallbackReply(domain.LocaleEnglish), result.Reply)

	stored, err := env.leads.FindBySessionID(result.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice@example.com", stored.Email, "extraction must not depend on the model")
}

func TestHandleTurn_LanguageFollowsLatestTurn(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "ok"})

	first, err := env.chat.HandleTurn(context.Background(), "", "visitor-1",
		"my email is alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.LocaleEnglish, first.Language)

	second, err := env.chat.HandleTurn(context.Background(), first.SessionID, "visitor-1",
		"hola, estoy interesado en marketing")
	require.NoError(t, err)
	assert.Equal(t, domain.LocaleSpanish, second.Language)

	// Unlike contact fields, language is not frozen by the first write.
	stored, err := env.leads.FindBySessionID(first.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Equal(t, domain.LocaleSpanish, stored.Language)

	session, err := env.sessRepo.FindByID(first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.LocaleSpanish, session.Language)
}

func TestHandleTurn_InferenceCadence(t *testing.T) {
	model := &stubModel{
		reply:   "ok",
		signals: &inference.Signals{Industry: "SaaS"},
	}
	env := newTestEnv(t, model)

	result, err := env.chat.HandleTurn(context.Background(), "", "visitor-1", "my email is a@b.com")
	require.NoError(t, err)
	assert.Zero(t, model.inferCalls, "no inference on the first turn")

	_, err = env.chat.HandleTurn(context.Background(), result.SessionID, "visitor-1", "tell me more")
	require.NoError(t, err)
	assert.Zero(t, model.inferCalls, "no inference on the second turn")

	_, err = env.chat.HandleTurn(context.Background(), result.SessionID, "visitor-1", "sounds good")
	require.NoError(t, err)
	assert.Equal(t, 1, model.inferCalls, "inference runs on the third user message")

	stored, err := env.leads.FindBySessionID(result.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "SaaS", stored.Industry, "inferred signals merge into the lead")
}

func TestHandleTurn_InferenceFailureKeepsRegexFields(t *testing.T) {
	model := &stubModel{
		reply:      "ok",
		signalsErr: errors.New("bad json"),
	}
	env := newTestEnv(t, model)

	var sessionID string
	for _, msg := range []string{
		"my email is a@b.com",
		"tell me more",
		"my phone is 4155550123",
	} {
		result, err := env.chat.HandleTurn(context.Background(), sessionID, "visitor-1", msg)
		require.NoError(t, err)
		sessionID = result.SessionID
	}
	assert.Equal(t, 1, model.inferCalls)

	stored, err := env.leads.FindBySessionID(sessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a@b.com", stored.Email)
	assert.Equal(t, "4155550123", stored.Phone, "regex fields persist despite inference failure")

	var count int
	require.NoError(t, env.db.QueryRow(
		`SELECT COUNT(*) FROM analytics_events WHERE event_type = ?`, domain.EventInferenceFailed,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestHandleTurn_EmptyMessageRejected(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "ok"})

	_, err := env.chat.HandleTurn(context.Background(), "", "visitor-1", "   ")
	assert.Error(t, err)
}

func TestHandleTurn_ReusesSession(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "ok"})

	first, err := env.chat.HandleTurn(context.Background(), "", "visitor-1", "hello")
	require.NoError(t, err)
	second, err := env.chat.HandleTurn(context.Background(), first.SessionID, "visitor-1", "hi again")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestHandleTurn_ResumeAfterIdle(t *testing.T) {
	env := newTestEnv(t, &stubModel{reply: "welcome back"})

	stale := time.Now().UTC().Add(-3 * time.Hour)
	require.NoError(t, env.sessRepo.Create(&domain.Session{
		ID:             "idle-session",
		UserIdentifier: "visitor-1",
		CreatedAt:      stale,
		LastActive:     stale,
	}))
	require.NoError(t, env.messages.Append(&domain.Message{
		SessionID: "idle-session", Role: domain.RoleUser, Content: "earlier message", CreatedAt: stale,
	}))

	result, err := env.chat.HandleTurn(context.Background(), "idle-session", "visitor-1", "I'm back")
	require.NoError(t, err)
	assert.True(t, result.Resumed)
}

func TestSessionService_ShouldRunInference(t *testing.T) {
	env := newTestEnv(t, &stubModel{})

	assert.False(t, env.sessions.ShouldRunInference(1))
	assert.False(t, env.sessions.ShouldRunInference(2))
	assert.True(t, env.sessions.ShouldRunInference(3))
	assert.False(t, env.sessions.ShouldRunInference(4))
	assert.True(t, env.sessions.ShouldRunInference(6))
}
