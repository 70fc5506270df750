package retention

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	leadrepo "github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/lead"
)

func TestWorker_Sweep(t *testing.T) {
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

	sessions := leadrepo.NewSQLSessionRepository(db, logger)

	stale := time.Now().UTC().Add(-60 * 24 * time.Hour)
	require.NoError(t, sessions.Create(&domain.Session{
		ID: "stale", UserIdentifier: "v1", CreatedAt: stale, LastActive: stale,
	}))
	require.NoError(t, sessions.Create(&domain.Session{
		ID: "active", UserIdentifier: "v2",
	}))

	worker := NewWorker(sessions, logger)
	assert.Equal(t, int64(1), worker.Sweep())

	retired, err := sessions.FindByID("stale")
	require.NoError(t, err)
	assert.False(t, retired.IsActive)

	kept, err := sessions.FindByID("active")
	require.NoError(t, err)
	assert.True(t, kept.IsActive)

	assert.Zero(t, worker.Sweep(), "second sweep is a no-op")
}
