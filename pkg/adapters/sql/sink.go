// Package sql archives transcripts to a relational database through gorm.
// SQLite (pure Go) and MySQL are supported.
package sql

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

// Sink implements ports.TranscriptSink and ports.TranscriptReader.
type Sink struct {
	db *gorm.DB
}

var (
	_ ports.TranscriptSink   = (*Sink)(nil)
	_ ports.TranscriptReader = (*Sink)(nil)
)

// Open connects with driver "sqlite" (default) or "mysql" and migrates the schema.
func Open(driver, dsn string) (*Sink, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return New(db)
}

// New wraps an open database and migrates the schema.
func New(db *gorm.DB) (*Sink, error) {
	if err := db.AutoMigrate(&TranscriptRecord{}, &MessageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate transcript tables: %w", err)
	}
	return &Sink{db: db}, nil
}

// Archive inserts the transcript and its messages in one transaction.
func (s *Sink) Archive(ctx context.Context, t domain.Transcript) error {
	rec := fromDomain(t)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return &domain.ExternalServiceError{Service: "sql", Err: err}
	}
	return nil
}

// Transcripts returns a session's archived transcripts, oldest first.
func (s *Sink) Transcripts(ctx context.Context, sessionID string) ([]domain.Transcript, error) {
	var recs []TranscriptRecord
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "sql", Err: err}
	}

	out := make([]domain.Transcript, len(recs))
	for i, r := range recs {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Close releases the connection pool.
func (s *Sink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
