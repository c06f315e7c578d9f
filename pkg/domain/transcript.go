package domain

import "time"

// Archive reasons.
const (
	ReasonCompleted = "completed"
	ReasonTimeout   = "timeout"
)

// TranscriptMessage is one non-empty exchange in an archived transcript.
type TranscriptMessage struct {
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	UserMessage string    `json:"user_message" bson:"user_message"`
	BotResponse string    `json:"bot_response" bson:"bot_response"`
	MessageType string    `json:"message_type" bson:"message_type"`
}

// Transcript is the archived record of a finished or expired session.
type Transcript struct {
	SessionID  string              `json:"session_id" bson:"session_id"`
	Timestamp  time.Time           `json:"timestamp" bson:"timestamp"`
	Language   Language            `json:"selected_language" bson:"selected_language"`
	Category   string              `json:"selected_category" bson:"selected_category"`
	Messages   []TranscriptMessage `json:"chat_messages" bson:"chat_messages"`
	StartedAt  time.Time           `json:"session_start" bson:"session_start"`
	EndedAt    time.Time           `json:"session_end" bson:"session_end"`
	FinalState string              `json:"final_state" bson:"final_state"`
	Reason     string              `json:"reason" bson:"reason"`
}

var categoryByState = map[string]string{
	"fault_reporting": "Fault Reporting",
	"bill_inquiries":  "Bill Inquiries",
	"new_connection":  "New Connection Requests",
	"solar_service":   "Solar Services",
	"other_services":  "Other Services",
}

// CategoryUnknown is reported for states outside every service category.
const CategoryUnknown = "Unknown"

// CategoryFor names the service category of a state, or "Unknown".
func CategoryFor(state string) string {
	if c, ok := categoryByState[state]; ok {
		return c
	}
	return CategoryUnknown
}

// NewTranscript builds the archive record for s. Turns with neither user nor
// bot text are dropped.
func NewTranscript(s *Session, reason string, now time.Time) Transcript {
	msgs := make([]TranscriptMessage, 0, len(s.History))
	for _, t := range s.History {
		bot := ""
		if t.Bot != nil {
			bot = *t.Bot
		}
		if t.User == "" && bot == "" {
			continue
		}
		ts := t.Timestamp
		if ts.IsZero() {
			ts = now
		}
		msgs = append(msgs, TranscriptMessage{
			Timestamp:   ts,
			UserMessage: t.User,
			BotResponse: bot,
			MessageType: "text",
		})
	}
	category := s.Category
	if category == "" {
		category = CategoryFor(s.State)
	}
	return Transcript{
		SessionID:  s.ID,
		Timestamp:  now,
		Language:   s.Language,
		Category:   category,
		Messages:   msgs,
		StartedAt:  s.CreatedAt,
		EndedAt:    now,
		FinalState: s.State,
		Reason:     reason,
	}
}
