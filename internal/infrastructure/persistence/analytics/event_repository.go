// Package analytics provides the concrete SQL-based implementation for
// analytics event persistence and the coarse lead summary aggregation.
package analytics

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/security"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

const timestampFormat = "2006-01-02 15:04:05"

// SQLEventRepository handles analytics event persistence.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves one analytics event.
func (r *SQLEventRepository) Store(event *domain.Event) error {
	const query = `
		INSERT INTO analytics_events (id, event_type, session_id, lead_id, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if event.ID == "" {
		event.ID = security.GenerateULID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := r.db.Exec(
		query,
		event.ID,
		event.EventType,
		nullable(event.SessionID),
		nullable(event.LeadID),
		nullable(event.Data),
		event.CreatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		r.logger.Database().Error("Analytics event insert failed",
			"error", err.Error(),
			"eventType", event.EventType,
			"sessionId", event.SessionID)
		return fmt.Errorf("failed to store analytics event: %w", err)
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// Summarize aggregates leads created within the last windowDays:
// total count, counts by priority and language, and the average score.
func (r *SQLEventRepository) Summarize(windowDays int) (*domain.Summary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays).Format(timestampFormat)

	start := time.Now()
	summary := &domain.Summary{
		LeadsByPriority: make(map[string]int),
		LeadsByLanguage: make(map[string]int),
		PeriodDays:      windowDays,
	}

	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM leads WHERE created_at >= ?`, cutoff,
	).Scan(&summary.TotalLeads); err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	if err := r.groupCount(
		`SELECT priority, COUNT(*) FROM leads WHERE created_at >= ? GROUP BY priority`,
		cutoff, summary.LeadsByPriority,
	); err != nil {
		return nil, err
	}

	if err := r.groupCount(
		`SELECT language, COUNT(*) FROM leads WHERE created_at >= ? GROUP BY language`,
		cutoff, summary.LeadsByLanguage,
	); err != nil {
		return nil, err
	}

	var avgScore sql.NullFloat64
	if err := r.db.QueryRow(
		`SELECT AVG(score) FROM leads WHERE created_at >= ?`, cutoff,
	).Scan(&avgScore); err != nil {
		return nil, fmt.Errorf("failed to average lead score: %w", err)
	}
	if avgScore.Valid {
		summary.AverageScore = math.Round(avgScore.Float64*10) / 10
	}

	r.logger.Analytics().Info("Lead summary computed",
		"windowDays", windowDays,
		"totalLeads", summary.TotalLeads,
		"duration", time.Since(start))
	return summary, nil
}

func (r *SQLEventRepository) groupCount(query, cutoff string, into map[string]int) error {
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to run summary group query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan summary row: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
