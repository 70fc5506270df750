// Package lead provides the concrete SQL-based implementations of
// the lead engine repositories (Lead, Message, Session).
package lead

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/security"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

const timestampFormat = "2006-01-02 15:04:05"

const leadColumns = `id, session_id, name, email, phone, company, interest, budget,
       industry, pain_points, buying_signals, language, score, priority,
       status, notes, source, created_at, updated_at`

// SQLLeadRepository is the SQL-based implementation of the lead Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or merges the lead bound to sessionID and returns its id.
//
// Merge semantics are first-write-wins: a scalar field in the partial is
// applied only when the stored column is still empty. Buying signals are
// unioned preserving insertion order. Score and priority are always
// overwritten with the freshly computed values, and updated_at advances.
// An empty partial on an existing lead is a no-op.
func (r *SQLLeadRepository) Upsert(sessionID string, partial domain.Partial) (string, error) {
	start := time.Now()
	r.logger.Database().Debug("Executing lead upsert", "sessionId", sessionID)

	existing, err := r.FindBySessionID(sessionID)
	if err != nil {
		return "", err
	}

	if existing == nil {
		leadID, err := r.insert(sessionID, partial)
		if err != nil {
			return "", err
		}
		r.logger.Database().Info("Lead insert completed", "leadId", leadID, "sessionId", sessionID, "duration", time.Since(start))
		return leadID, nil
	}

	// An empty partial cannot change any field, and score is a pure
	// function of the fields, so the whole upsert is a no-op.
	if partial.IsEmpty() {
		return existing.ID, nil
	}

	signals := existing.BuyingSignals
	for _, s := range partial.BuyingSignals {
		signals = appendDistinct(signals, s)
	}

	const query = `
		UPDATE leads SET
			name = COALESCE(NULLIF(name, ''), NULLIF(?, ''), ''),
			email = COALESCE(NULLIF(email, ''), NULLIF(?, ''), ''),
			phone = COALESCE(NULLIF(phone, ''), NULLIF(?, ''), ''),
			company = COALESCE(NULLIF(company, ''), NULLIF(?, ''), ''),
			interest = COALESCE(NULLIF(interest, ''), NULLIF(?, ''), ''),
			budget = COALESCE(NULLIF(budget, ''), NULLIF(?, ''), ''),
			industry = COALESCE(NULLIF(industry, ''), NULLIF(?, ''), ''),
			pain_points = COALESCE(NULLIF(pain_points, ''), NULLIF(?, ''), ''),
			buying_signals = ?,
			language = COALESCE(NULLIF(?, ''), language),
			score = ?,
			priority = ?,
			updated_at = ?
		WHERE session_id = ?`

	_, err = r.db.Exec(
		query,
		partial.Name,
		partial.Email,
		partial.Phone,
		partial.Company,
		partial.Interest,
		partial.Budget,
		partial.Industry,
		partial.PainPoints,
		marshalSignals(signals),
		string(partial.Language),
		partial.Score,
		string(partial.Priority),
		time.Now().UTC().Format(timestampFormat),
		sessionID,
	)
	if err != nil {
		r.logger.Database().Error("Lead update failed", "error", err.Error(), "sessionId", sessionID)
		return "", fmt.Errorf("failed to update lead for session %s: %w", sessionID, err)
	}

	r.logger.Database().Info("Lead update completed", "leadId", existing.ID, "sessionId", sessionID, "duration", time.Since(start))
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return existing.ID, nil
}

func (r *SQLLeadRepository) insert(sessionID string, partial domain.Partial) (string, error) {
	const query = `
		INSERT INTO leads (id, session_id, name, email, phone, company, interest, budget,
		                   industry, pain_points, buying_signals, language, score, priority,
		                   status, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	leadID := security.GenerateULID()
	language := partial.Language
	if language == "" {
		language = domain.LocaleEnglish
	}
	priority := partial.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	source := partial.Source
	if source == "" {
		source = config.LeadSource
	}
	now := time.Now().UTC().Format(timestampFormat)

	signals := []string{}
	for _, s := range partial.BuyingSignals {
		signals = appendDistinct(signals, s)
	}

	_, err := r.db.Exec(
		query,
		leadID,
		sessionID,
		partial.Name,
		partial.Email,
		partial.Phone,
		partial.Company,
		partial.Interest,
		partial.Budget,
		partial.Industry,
		partial.PainPoints,
		marshalSignals(signals),
		string(language),
		partial.Score,
		string(priority),
		string(domain.StatusNew),
		source,
		now,
		now,
	)
	if err != nil {
		r.logger.Database().Error("Lead insert failed", "error", err.Error(), "sessionId", sessionID)
		return "", fmt.Errorf("failed to insert lead for session %s: %w", sessionID, err)
	}
	return leadID, nil
}

// FindByID retrieves a Lead by its unique identifier.
func (r *SQLLeadRepository) FindByID(id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by ID", "id", id)

	row := r.db.QueryRow(query, id)
	result, err := r.scanLead(row)
	if err != nil {
		r.logger.Database().Error("Failed to load lead by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return result, nil
}

// FindBySessionID retrieves the single Lead bound to a session, or nil.
func (r *SQLLeadRepository) FindBySessionID(sessionID string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE session_id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by session", "sessionId", sessionID)

	row := r.db.QueryRow(query, sessionID)
	result, err := r.scanLead(row)
	if err != nil {
		r.logger.Database().Error("Failed to load lead by session", "error", err.Error(), "sessionId", sessionID)
		return nil, err
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return result, nil
}

// List retrieves leads matching the filter, newest first.
func (r *SQLLeadRepository) List(filter domain.Filter, page domain.Page) ([]*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`

	var conditions []string
	var params []any

	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		params = append(params, string(filter.Priority))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		params = append(params, string(filter.Status))
	}
	if filter.Language != "" {
		conditions = append(conditions, "language = ?")
		params = append(params, string(filter.Language))
	}
	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		params = append(params, filter.DateFrom.UTC().Format(timestampFormat))
	}
	if !filter.DateTo.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		params = append(params, filter.DateTo.UTC().Format(timestampFormat))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := page.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, page.Offset)

	start := time.Now()
	rows, err := r.db.Query(query, params...)
	if err != nil {
		r.logger.Database().Error("Lead list query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		l, err := r.scanLeadRows(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return leads, nil
}

// UpdateStatus changes the operator-owned status and optional notes.
// This is the only write path that may touch status.
func (r *SQLLeadRepository) UpdateStatus(leadID string, status domain.Status, notes string) error {
	const query = `
		UPDATE leads SET
			status = ?,
			notes = COALESCE(NULLIF(?, ''), notes),
			updated_at = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing lead status update", "leadId", leadID, "status", status)

	result, err := r.db.Exec(query, string(status), notes, time.Now().UTC().Format(timestampFormat), leadID)
	if err != nil {
		r.logger.Database().Error("Lead status update failed", "error", err.Error(), "leadId", leadID)
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("lead %s not found", leadID)
	}

	r.logger.Database().Info("Lead status update completed", "leadId", leadID, "status", status, "duration", time.Since(start))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLead is a helper function to scan a sql.Row into a Lead struct.
func (r *SQLLeadRepository) scanLead(row *sql.Row) (*domain.Lead, error) {
	l, err := scanLeadFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

func (r *SQLLeadRepository) scanLeadRows(rows *sql.Rows) (*domain.Lead, error) {
	return scanLeadFrom(rows)
}

func scanLeadFrom(scanner rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var name, email, phone, company, interest, budget sql.NullString
	var industry, painPoints, signals, notes sql.NullString
	var language, priority, status string
	var createdAtStr, updatedAtStr string

	err := scanner.Scan(
		&l.ID,
		&l.SessionID,
		&name,
		&email,
		&phone,
		&company,
		&interest,
		&budget,
		&industry,
		&painPoints,
		&signals,
		&language,
		&l.Score,
		&priority,
		&status,
		&notes,
		&l.Source,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	l.Name = name.String
	l.Email = email.String
	l.Phone = phone.String
	l.Company = company.String
	l.Interest = interest.String
	l.Budget = budget.String
	l.Industry = industry.String
	l.PainPoints = painPoints.String
	l.Notes = notes.String
	l.Language = domain.Locale(language)
	l.Priority = domain.Priority(priority)
	l.Status = domain.Status(status)
	l.BuyingSignals = unmarshalSignals(signals.String)

	l.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(timestampFormat, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", value, err)
	}
	return t, nil
}

func marshalSignals(signals []string) string {
	if len(signals) == 0 {
		return "[]"
	}
	data, err := json.Marshal(signals)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalSignals(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var signals []string
	if err := json.Unmarshal([]byte(raw), &signals); err != nil {
		return nil
	}
	return signals
}

func appendDistinct(signals []string, signal string) []string {
	if signal == "" {
		return signals
	}
	for _, s := range signals {
		if s == signal {
			return signals
		}
	}
	return append(signals, signal)
}
