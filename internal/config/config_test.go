package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 4096, cfg.Server.MaxInputSize)
	assert.Equal(t, 5*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "memory", cfg.Archive.Backend)
	assert.Equal(t, "chatbot_db", cfg.Archive.MongoDB)
	assert.Equal(t, "chat_history", cfg.Archive.MongoCollection)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Archive.MaskTranscripts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRIDLINE_ADDR", ":9000")
	t.Setenv("GRIDLINE_SESSION_TIMEOUT", "90s")
	t.Setenv("GRIDLINE_SESSION_BACKEND", "Redis")
	t.Setenv("GRIDLINE_REDIS_DB", "3")
	t.Setenv("GRIDLINE_ARCHIVE_BACKEND", "sql")
	t.Setenv("GRIDLINE_SQL_DRIVER", "mysql")
	t.Setenv("GRIDLINE_VERIFICATION_RPS", "2.5")
	t.Setenv("GRIDLINE_MASK_TRANSCRIPTS", "true")
	t.Setenv("GRIDLINE_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 90*time.Second, cfg.Session.Timeout)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 3, cfg.Session.RedisDB)
	assert.Equal(t, "sql", cfg.Archive.Backend)
	assert.Equal(t, "mysql", cfg.Archive.SQLDriver)
	assert.InDelta(t, 2.5, cfg.Services.VerificationRPS, 0.001)
	assert.True(t, cfg.Archive.MaskTranscripts)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"GRIDLINE_SESSION_TIMEOUT":  "soon",
		"GRIDLINE_REDIS_DB":         "zero",
		"GRIDLINE_SESSION_BACKEND":  "postgres",
		"GRIDLINE_ARCHIVE_BACKEND":  "s3",
		"GRIDLINE_MASK_TRANSCRIPTS": "maybe",
		"GRIDLINE_LOG_FORMAT":       "xml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDLINE_ADVISOR_URL=http://advisor.local/chat\n"), 0o600))
	t.Setenv("GRIDLINE_ADVISOR_URL", "")
	require.NoError(t, os.Unsetenv("GRIDLINE_ADVISOR_URL"))

	require.NoError(t, LoadEnvFiles(path, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("GRIDLINE_ADVISOR_URL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://advisor.local/chat", cfg.Services.AdvisorURL)
}
