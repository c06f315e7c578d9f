// Package config loads gridline settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Prefix is prepended to every environment variable name.
const Prefix = "GRIDLINE_"

// Config aggregates all service settings.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Session  SessionConfig
	Archive  ArchiveConfig
	Services ServicesConfig
}

// ServerConfig describes the HTTP listener and input limits.
type ServerConfig struct {
	Addr         string
	FlowsDir     string
	MaxInputSize int
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string
	Format string
}

// SessionConfig selects the session store.
type SessionConfig struct {
	Backend       string // memory, redis or file
	Timeout       time.Duration
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EncryptionKey string
}

// ArchiveConfig selects the transcript sink.
type ArchiveConfig struct {
	Backend         string // memory, mongo, sql or bolt
	MongoURI        string
	MongoDB         string
	MongoCollection string
	SQLDriver       string
	SQLDSN          string
	BoltPath        string
	MaskTranscripts bool
}

// ServicesConfig points at the external collaborators. Empty URLs select the
// local fallbacks.
type ServicesConfig struct {
	VerificationURL string
	VerificationRPS float64
	ClassifierURL   string
	AdvisorURL      string
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables already set. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	timeout, err := durationEnv("SESSION_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	maxInput, err := intEnv("MAX_INPUT_SIZE", 4096)
	if err != nil {
		return nil, err
	}
	rps, err := floatEnv("VERIFICATION_RPS", 0)
	if err != nil {
		return nil, err
	}
	mask, err := boolEnv("MASK_TRANSCRIPTS", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         stringEnv("ADDR", ":8000"),
			FlowsDir:     stringEnv("FLOWS_DIR", ""),
			MaxInputSize: maxInput,
		},
		Log: LogConfig{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "text"),
		},
		Session: SessionConfig{
			Backend:       strings.ToLower(stringEnv("SESSION_BACKEND", "memory")),
			Timeout:       timeout,
			Dir:           stringEnv("SESSION_DIR", ".gridline/sessions"),
			RedisAddr:     stringEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: stringEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			EncryptionKey: stringEnv("ENCRYPTION_KEY", ""),
		},
		Archive: ArchiveConfig{
			Backend:         strings.ToLower(stringEnv("ARCHIVE_BACKEND", "memory")),
			MongoURI:        stringEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:         stringEnv("MONGO_DB", "chatbot_db"),
			MongoCollection: stringEnv("MONGO_COLLECTION", "chat_history"),
			SQLDriver:       strings.ToLower(stringEnv("SQL_DRIVER", "sqlite")),
			SQLDSN:          stringEnv("SQL_DSN", "gridline.db"),
			BoltPath:        stringEnv("BOLT_PATH", "gridline.bolt"),
			MaskTranscripts: mask,
		},
		Services: ServicesConfig{
			VerificationURL: stringEnv("VERIFICATION_URL", ""),
			VerificationRPS: rps,
			ClassifierURL:   stringEnv("CLASSIFIER_URL", ""),
			AdvisorURL:      stringEnv("ADVISOR_URL", ""),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case "memory", "redis", "file":
	default:
		return fmt.Errorf("%sSESSION_BACKEND: unknown backend %q", Prefix, c.Session.Backend)
	}
	switch c.Archive.Backend {
	case "memory", "mongo", "sql", "bolt":
	default:
		return fmt.Errorf("%sARCHIVE_BACKEND: unknown backend %q", Prefix, c.Archive.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%sLOG_FORMAT: unknown format %q", Prefix, c.Log.Format)
	}
	if c.Session.Timeout < 0 {
		return fmt.Errorf("%sSESSION_TIMEOUT: must not be negative", Prefix)
	}
	return nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(Prefix + key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := stringEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", Prefix, key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := stringEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", Prefix, key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := stringEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", Prefix, key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := stringEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", Prefix, key, err)
	}
	return v, nil
}
