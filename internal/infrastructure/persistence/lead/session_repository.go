package lead

import (
	"database/sql"
	"fmt"
	"time"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// SQLSessionRepository is the SQL-based implementation of visitor
// session persistence.
type SQLSessionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSessionRepository creates a new instance of the repository.
func NewSQLSessionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSessionRepository {
	return &SQLSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new session row.
func (r *SQLSessionRepository) Create(session *domain.Session) error {
	const query = `
		INSERT INTO sessions (id, user_identifier, language, created_at, last_active, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if session.LastActive.IsZero() {
		session.LastActive = session.CreatedAt
	}
	session.IsActive = true

	start := time.Now()
	_, err := r.db.Exec(
		query,
		session.ID,
		session.UserIdentifier,
		string(session.Language),
		session.CreatedAt.UTC().Format(timestampFormat),
		session.LastActive.UTC().Format(timestampFormat),
	)
	if err != nil {
		r.logger.Database().Error("Session insert failed", "error", err.Error(), "sessionId", session.ID)
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Database().Info("Session created", "sessionId", session.ID, "language", session.Language, "duration", time.Since(start))
	return nil
}

// FindByID retrieves a session by its identifier, or nil when unknown.
func (r *SQLSessionRepository) FindByID(id string) (*domain.Session, error) {
	const query = `
		SELECT id, user_identifier, language, created_at, last_active, is_active
		FROM sessions
		WHERE id = ?`

	var session domain.Session
	var language, createdAtStr, lastActiveStr string
	var isActive bool

	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.UserIdentifier,
		&language,
		&createdAtStr,
		&lastActiveStr,
		&isActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load session", "error", err.Error(), "sessionId", id)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session.Language = domain.Locale(language)
	session.IsActive = isActive
	session.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	session.LastActive, err = parseTimestamp(lastActiveStr)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// TouchActivity advances the session's last_active timestamp to now and
// records the locale of the latest turn. An empty language keeps the
// stored one.
func (r *SQLSessionRepository) TouchActivity(id string, language domain.Locale) error {
	const query = `
		UPDATE sessions
		SET last_active = ?, language = COALESCE(NULLIF(?, ''), language)
		WHERE id = ?`

	_, err := r.db.Exec(query, time.Now().UTC().Format(timestampFormat), string(language), id)
	if err != nil {
		r.logger.Database().Error("Session activity update failed", "error", err.Error(), "sessionId", id)
		return fmt.Errorf("failed to touch session activity: %w", err)
	}
	return nil
}

// MarkInactiveOlderThan flips is_active off for sessions idle since
// before the cutoff. Rows are never deleted; returns the number of
// sessions retired.
func (r *SQLSessionRepository) MarkInactiveOlderThan(cutoff time.Time) (int64, error) {
	const query = `UPDATE sessions SET is_active = 0 WHERE is_active = 1 AND last_active < ?`

	start := time.Now()
	result, err := r.db.Exec(query, cutoff.UTC().Format(timestampFormat))
	if err != nil {
		r.logger.Database().Error("Retention sweep failed", "error", err.Error())
		return 0, fmt.Errorf("failed to mark sessions inactive: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read retention sweep result: %w", err)
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return affected, nil
}
