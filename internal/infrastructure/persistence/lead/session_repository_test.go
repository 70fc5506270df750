package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

func TestSessionRepository_CreateAndFind(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLSessionRepository(db, logger)

	session := &domain.Session{
		ID:             "sess-1",
		UserIdentifier: "visitor-1",
		Language:       domain.LocaleSpanish,
	}
	require.NoError(t, repo.Create(session))

	found, err := repo.FindByID("sess-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "visitor-1", found.UserIdentifier)
	assert.Equal(t, domain.LocaleSpanish, found.Language)
	assert.True(t, found.IsActive)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestSessionRepository_FindMissingReturnsNil(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLSessionRepository(db, logger)

	found, err := repo.FindByID("missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSessionRepository_TouchActivity(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLSessionRepository(db, logger)

	past := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(&domain.Session{
		ID:             "sess-1",
		UserIdentifier: "visitor-1",
		Language:       domain.LocaleEnglish,
		CreatedAt:      past,
		LastActive:     past,
	}))

	require.NoError(t, repo.TouchActivity("sess-1", domain.LocaleSpanish))

	found, err := repo.FindByID("sess-1")
	require.NoError(t, err)
	assert.True(t, found.LastActive.After(past))
	assert.Equal(t, domain.LocaleSpanish, found.Language, "language follows the latest turn")

	// An empty locale keeps the stored language.
	require.NoError(t, repo.TouchActivity("sess-1", ""))
	found, err = repo.FindByID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LocaleSpanish, found.Language)
}

func TestSessionRepository_MarkInactiveOlderThan(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLSessionRepository(db, logger)

	stale := time.Now().UTC().Add(-40 * 24 * time.Hour)
	require.NoError(t, repo.Create(&domain.Session{
		ID: "old", UserIdentifier: "v1", CreatedAt: stale, LastActive: stale,
	}))
	require.NoError(t, repo.Create(&domain.Session{
		ID: "fresh", UserIdentifier: "v2",
	}))

	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)
	retired, err := repo.MarkInactiveOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), retired)

	old, err := repo.FindByID("old")
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	fresh, err := repo.FindByID("fresh")
	require.NoError(t, err)
	assert.True(t, fresh.IsActive)

	// The sweep never deletes rows.
	require.NotNil(t, old)

	// Second sweep finds nothing new.
	retired, err = repo.MarkInactiveOlderThan(cutoff)
	require.NoError(t, err)
	assert.Zero(t, retired)
}
