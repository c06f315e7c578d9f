package sql

import (
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// TranscriptRecord is the chat_transcripts row.
type TranscriptRecord struct {
	ID         uint      `gorm:"primaryKey"`
	SessionID  string    `gorm:"size:128;index;not null"`
	Timestamp  time.Time `gorm:"index"`
	Language   string    `gorm:"size:32"`
	Category   string    `gorm:"size:64"`
	StartedAt  time.Time
	EndedAt    time.Time
	FinalState string          `gorm:"size:128"`
	Reason     string          `gorm:"size:32"`
	Messages   []MessageRecord `gorm:"foreignKey:TranscriptID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// TableName pins the table name.
func (TranscriptRecord) TableName() string { return "chat_transcripts" }

// MessageRecord is one exchange of a transcript.
type MessageRecord struct {
	ID           uint `gorm:"primaryKey"`
	TranscriptID uint `gorm:"index;not null"`
	Seq          int
	Timestamp    time.Time
	UserMessage  string `gorm:"type:text"`
	BotResponse  string `gorm:"type:text"`
	MessageType  string `gorm:"size:32"`
}

// TableName pins the table name.
func (MessageRecord) TableName() string { return "chat_messages" }

func fromDomain(t domain.Transcript) TranscriptRecord {
	rec := TranscriptRecord{
		SessionID:  t.SessionID,
		Timestamp:  t.Timestamp,
		Language:   string(t.Language),
		Category:   t.Category,
		StartedAt:  t.StartedAt,
		EndedAt:    t.EndedAt,
		FinalState: t.FinalState,
		Reason:     t.Reason,
		Messages:   make([]MessageRecord, len(t.Messages)),
	}
	for i, m := range t.Messages {
		rec.Messages[i] = MessageRecord{
			Seq:         i,
			Timestamp:   m.Timestamp,
			UserMessage: m.UserMessage,
			BotResponse: m.BotResponse,
			MessageType: m.MessageType,
		}
	}
	return rec
}

func (r TranscriptRecord) toDomain() domain.Transcript {
	t := domain.Transcript{
		SessionID:  r.SessionID,
		Timestamp:  r.Timestamp,
		Language:   domain.Language(r.Language),
		Category:   r.Category,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		FinalState: r.FinalState,
		Reason:     r.Reason,
		Messages:   make([]domain.TranscriptMessage, len(r.Messages)),
	}
	for i, m := range r.Messages {
		t.Messages[i] = domain.TranscriptMessage{
			Timestamp:   m.Timestamp,
			UserMessage: m.UserMessage,
			BotResponse: m.BotResponse,
			MessageType: m.MessageType,
		}
	}
	return t
}
