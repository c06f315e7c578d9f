// Package advisor is the client for the solar question-answering service.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

// DefaultTimeout bounds a single question.
const DefaultTimeout = 30 * time.Second

// Client posts {"question", "session_id"} and reads {"response", "session_id"}.
type Client struct {
	url    string
	client *http.Client
}

// New creates an advisor client. A nil http client gets DefaultTimeout.
func New(url string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{url: strings.TrimRight(url, "/") + "/", client: client}
}

var _ ports.Advisor = (*Client)(nil)

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Ask sends a question under token. The returned token is the one the service
// wants for follow-ups, or the input token when it did not send one.
func (c *Client) Ask(ctx context.Context, question, token string) (string, string, error) {
	payload, err := json.Marshal(askRequest{Question: question, SessionID: token})
	if err != nil {
		return "", token, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", token, &domain.ExternalServiceError{Service: "advisor", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", token, &domain.ExternalServiceError{Service: "advisor", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", token, &domain.ExternalServiceError{Service: "advisor", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	var out askResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", token, &domain.ExternalServiceError{Service: "advisor", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if out.Response == "" {
		return "", token, &domain.ExternalServiceError{Service: "advisor", Err: fmt.Errorf("empty response")}
	}
	next := out.SessionID
	if next == "" {
		next = token
	}
	return out.Response, next, nil
}
