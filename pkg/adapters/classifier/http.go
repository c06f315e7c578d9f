// Package classifier provides intent classifiers: an HTTP client for a model
// server and a keyword matcher used when no model server is configured.
package classifier

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

// HTTP posts {"text": ...} to a model server and expects {"labels": [...]}.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates a classifier for the model server at url.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{url: strings.TrimRight(url, "/"), client: client}
}

var _ ports.IntentClassifier = (*HTTP)(nil)

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Labels []string `json:"labels"`
}

// Classify returns the labels predicted for text.
func (c *HTTP) Classify(ctx context.Context, text string) ([]string, error) {
	payload, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "classifier", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "classifier", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ExternalServiceError{Service: "classifier", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.ExternalServiceError{Service: "classifier", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return out.Labels, nil
}
