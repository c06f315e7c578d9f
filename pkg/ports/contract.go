package ports

import (
	"context"
	"testing"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation adheres
// to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(sessionID, "start", created)
		s.State = "contact_verification"
		s.Language = domain.LanguageSinhala
		s.MistakeCount = 2
		s.Scratch[domain.ScratchAccount] = "1234567890"
		s.Scratch[domain.ScratchBalance] = 542.10
		s.Record("Sinhala", domain.Text("welcome"), created)

		require.NoError(t, store.Save(ctx, s), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "contact_verification", loaded.State)
		assert.Equal(t, domain.LanguageSinhala, loaded.Language)
		assert.Equal(t, 2, loaded.MistakeCount)
		assert.Equal(t, "1234567890", loaded.ScratchString(domain.ScratchAccount))
		balance, ok := loaded.ScratchFloat(domain.ScratchBalance)
		assert.True(t, ok)
		assert.InDelta(t, 542.10, balance, 0.001)
		require.Len(t, loaded.History, 1)
		require.NotNil(t, loaded.History[0].Bot)
		assert.Equal(t, "welcome", *loaded.History[0].Bot)
		assert.True(t, created.Equal(loaded.CreatedAt), "CreatedAt must survive a round trip")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, "start", created)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "start", created))
		_ = store.Save(ctx, domain.NewSession(id2, "start", created))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// TranscriptArchive is a sink that can read back what it stored.
type TranscriptArchive interface {
	TranscriptSink
	TranscriptReader
}

// RunTranscriptSinkContract verifies that an archive stores transcripts per
// session and returns them intact.
func RunTranscriptSinkContract(t *testing.T, archive TranscriptArchive) {
	ctx := context.Background()
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	tr := domain.Transcript{
		SessionID:  "contract-transcript",
		Timestamp:  start.Add(time.Minute),
		Language:   domain.LanguageEnglish,
		Category:   "Bill Inquiries",
		StartedAt:  start,
		EndedAt:    start.Add(time.Minute),
		FinalState: "bill_inquiries",
		Reason:     domain.ReasonCompleted,
		Messages: []domain.TranscriptMessage{
			{Timestamp: start, UserMessage: "English", BotResponse: "How can I help?", MessageType: "text"},
			{Timestamp: start.Add(30 * time.Second), UserMessage: "bill", BotResponse: "Bill menu", MessageType: "text"},
		},
	}

	t.Run("Archive and Read", func(t *testing.T) {
		require.NoError(t, archive.Archive(ctx, tr))

		got, err := archive.Transcripts(ctx, tr.SessionID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tr.Category, got[0].Category)
		assert.Equal(t, tr.FinalState, got[0].FinalState)
		assert.Equal(t, tr.Language, got[0].Language)
		assert.Equal(t, tr.Reason, got[0].Reason)
		require.Len(t, got[0].Messages, 2)
		assert.Equal(t, "bill", got[0].Messages[1].UserMessage)
		assert.True(t, tr.StartedAt.Equal(got[0].StartedAt))
	})

	t.Run("Archive Twice Keeps Both", func(t *testing.T) {
		retry := tr
		retry.Reason = domain.ReasonTimeout
		require.NoError(t, archive.Archive(ctx, retry))

		got, err := archive.Transcripts(ctx, tr.SessionID)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Unknown Session", func(t *testing.T) {
		got, err := archive.Transcripts(ctx, "never-archived")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
