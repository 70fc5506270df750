package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

func TestMessageRepository_AppendAndLoad(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLMessageRepository(db, logger)
	createTestSession(t, db, logger, "s1")

	first := &domain.Message{SessionID: "s1", Role: domain.RoleUser, Content: "hello", Language: domain.LocaleEnglish}
	require.NoError(t, repo.Append(first))
	assert.NotEmpty(t, first.ID, "id is assigned on append")

	require.NoError(t, repo.Append(&domain.Message{
		SessionID: "s1", Role: domain.RoleAssistant, Content: "hi there", Language: domain.LocaleEnglish,
	}))

	messages, err := repo.FindBySessionID("s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
}

func TestMessageRepository_OrderedByTimestamp(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLMessageRepository(db, logger)
	createTestSession(t, db, logger, "s1")

	base := time.Now().UTC().Add(-time.Hour)
	for i, content := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Append(&domain.Message{
			SessionID: "s1",
			Role:      domain.RoleUser,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	messages, err := repo.FindBySessionID("s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "three", messages[2].Content)
}

func TestMessageRepository_LimitAndCount(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSQLMessageRepository(db, logger)
	createTestSession(t, db, logger, "s1")

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(&domain.Message{
			SessionID: "s1", Role: domain.RoleUser, Content: "msg",
		}))
	}
	require.NoError(t, repo.Append(&domain.Message{
		SessionID: "s1", Role: domain.RoleAssistant, Content: "reply",
	}))

	messages, err := repo.FindBySessionID("s1", 3)
	require.NoError(t, err)
	assert.Len(t, messages, 3)

	count, err := repo.CountBySessionID("s1", "")
	require.NoError(t, err)
	assert.Equal(t, 6, count, "empty role counts every message")

	count, err = repo.CountBySessionID("s1", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = repo.CountBySessionID("other", "")
	require.NoError(t, err)
	assert.Zero(t, count)
}
