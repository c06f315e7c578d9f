package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/internal/sanitize"
	"github.com/gridline-labs/gridline/pkg/domain"
)

type fakeBot struct {
	lastID, lastMsg string
}

func (f *fakeBot) Handle(_ context.Context, sessionID, message string) domain.Reply {
	f.lastID, f.lastMsg = sessionID, message
	return domain.Reply{Message: "Choose", Kind: domain.ReplyMenu, Options: []string{"English", "Sinhala"}, Status: domain.StatusOK}
}

func (f *fakeBot) Nodes() []domain.Node {
	return []domain.Node{{Key: "start", Kind: domain.KindMenu}}
}

func TestSendMessage(t *testing.T) {
	bot := &fakeBot{}
	s := NewServer(bot, "1.0.0\n")

	reply, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, SendMessageArgs{SessionID: "mcp-1", Message: " English\x1b "})

	require.NoError(t, err)
	assert.Equal(t, "Choose", reply.Message)
	assert.Equal(t, domain.ReplyMenu, reply.Kind)
	assert.Equal(t, "mcp-1", bot.lastID)
	assert.Equal(t, "English", bot.lastMsg)
}

func TestSendMessage_Rejects(t *testing.T) {
	bot := &fakeBot{}
	s := NewServer(bot, "dev", WithSanitizer(sanitize.New(4)))

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, SendMessageArgs{SessionID: "", Message: "hi"})
	assert.Error(t, err)

	_, err = s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, SendMessageArgs{SessionID: "x", Message: "too long"})
	assert.ErrorIs(t, err, sanitize.ErrInputTooLarge)
	assert.Empty(t, bot.lastID)
}

func TestGraphResource(t *testing.T) {
	s := NewServer(&fakeBot{}, "dev")

	contents, err := s.readGraph(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, GraphURI, text.URI)
	assert.Contains(t, text.Text, `"key":"start"`)

	res, err := s.handleGetGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
