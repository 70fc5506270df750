package lead

import (
	"fmt"
	"time"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/security"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// SQLMessageRepository is the SQL-based implementation of the
// append-only conversation log.
type SQLMessageRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLMessageRepository creates a new instance of the repository.
func NewSQLMessageRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLMessageRepository {
	return &SQLMessageRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one immutable message. Messages are never updated or
// deleted.
func (r *SQLMessageRepository) Append(msg *domain.Message) error {
	const query = `
		INSERT INTO messages (id, session_id, role, content, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if msg.ID == "" {
		msg.ID = security.GenerateULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := r.db.Exec(
		query,
		msg.ID,
		msg.SessionID,
		string(msg.Role),
		msg.Content,
		string(msg.Language),
		msg.CreatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		r.logger.Database().Error("Message insert failed", "error", err.Error(), "sessionId", msg.SessionID)
		return fmt.Errorf("failed to append message: %w", err)
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindBySessionID loads the conversation history for a session ordered
// by timestamp ascending, up to limit messages.
func (r *SQLMessageRepository) FindBySessionID(sessionID string, limit int) ([]*domain.Message, error) {
	const query = `
		SELECT id, session_id, role, content, language, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?`

	if limit <= 0 {
		limit = config.HistoryLoadLimit
	}

	start := time.Now()
	rows, err := r.db.Query(query, sessionID, limit)
	if err != nil {
		r.logger.Database().Error("Message history query failed", "error", err.Error(), "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		var role, language, createdAtStr string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &language, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = domain.Role(role)
		msg.Language = domain.Locale(language)
		msg.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return messages, nil
}

// CountBySessionID returns the number of stored messages for a session,
// optionally narrowed to one role. An empty role counts everything.
func (r *SQLMessageRepository) CountBySessionID(sessionID string, role domain.Role) (int, error) {
	const query = `
		SELECT COUNT(*) FROM messages
		WHERE session_id = ? AND (? = '' OR role = ?)`

	var count int
	if err := r.db.QueryRow(query, sessionID, string(role), string(role)).Scan(&count); err != nil {
		r.logger.Database().Error("Message count query failed", "error", err.Error(), "sessionId", sessionID)
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
