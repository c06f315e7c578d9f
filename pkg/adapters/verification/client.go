// Package verification talks to the utility's account verification backend.
//
// The backend exposes two plain-text endpoints:
//
//	GET {base}/GetAccountBalance?accountNumber=N  ->  "YES,<balance>" or anything else
//	GET {base}/GetAccountNumber?contactNumber=N   ->  "<account number>" or empty
//
// Every transport, status or parse failure collapses to an invalid / not found
// result and is logged.
package verification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gridline-labs/gridline/internal/logging"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds each backend request.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4096

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Client implements ports.VerificationClient over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRateLimit caps outbound requests per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for collapsed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.VerificationClient = (*Client)(nil)

// LookupAccount checks an account number and returns its balance.
func (c *Client) LookupAccount(ctx context.Context, number string) ports.AccountResult {
	body, err := c.get(ctx, "/GetAccountBalance", "accountNumber", number)
	if err != nil {
		c.logger.Warn("Account lookup failed", "err", err)
		return ports.AccountResult{}
	}

	parts := strings.Split(body, ",")
	if len(parts) < 2 || strings.TrimSpace(parts[0]) != "YES" {
		return ports.AccountResult{}
	}
	balance, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		c.logger.Warn("Account lookup returned a malformed balance", "err", err)
		return ports.AccountResult{}
	}
	return ports.AccountResult{Valid: true, Balance: balance}
}

// LookupContact finds the account registered to a contact number.
func (c *Client) LookupContact(ctx context.Context, number string) ports.ContactResult {
	body, err := c.get(ctx, "/GetAccountNumber", "contactNumber", number)
	if err != nil {
		c.logger.Warn("Contact lookup failed", "err", err)
		return ports.ContactResult{}
	}
	account := strings.TrimSpace(body)
	if !digitsOnly.MatchString(account) {
		return ports.ContactResult{}
	}
	return ports.ContactResult{AccountNumber: account, Found: true}
}

func (c *Client) get(ctx context.Context, path, param, value string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &domain.ExternalServiceError{Service: "verification", Err: err}
		}
	}

	u := c.baseURL + path + "?" + url.Values{param: {value}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "verification", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "verification", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ExternalServiceError{Service: "verification", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "verification", Err: err}
	}
	return string(data), nil
}
