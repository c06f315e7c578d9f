package domain_test

import (
	"testing"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscript(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Minute)

	s := domain.NewSession("abc", "start", start)
	s.Language = domain.LanguageEnglish
	s.State = "bill_inquiries"
	s.Record("English", domain.Text("Welcome"), start.Add(time.Second))
	s.Record("", nil, start.Add(2*time.Second))
	s.Record("my bill", nil, time.Time{})

	tr := domain.NewTranscript(s, domain.ReasonCompleted, end)

	assert.Equal(t, "abc", tr.SessionID)
	assert.Equal(t, "Bill Inquiries", tr.Category)
	assert.Equal(t, domain.LanguageEnglish, tr.Language)
	assert.Equal(t, start, tr.StartedAt)
	assert.Equal(t, end, tr.EndedAt)
	assert.Equal(t, "bill_inquiries", tr.FinalState)
	require.Len(t, tr.Messages, 2, "empty turns are dropped")
	assert.Equal(t, "Welcome", tr.Messages[0].BotResponse)
	assert.Equal(t, "text", tr.Messages[0].MessageType)
	assert.Equal(t, "", tr.Messages[1].BotResponse)
	assert.Equal(t, end, tr.Messages[1].Timestamp, "missing timestamps fall back to archive time")
}

func TestCategoryFor(t *testing.T) {
	tests := map[string]string{
		"fault_reporting": "Fault Reporting",
		"solar_service":   "Solar Services",
		"other_services":  "Other Services",
		"goodbye":         "Unknown",
		"":                "Unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, domain.CategoryFor(state), state)
	}
}
