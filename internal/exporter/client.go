package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/webitel/video-exporter/internal/model"
)

const (
	DefaultMaxAttempts = 3
	DefaultTimeout     = 45 * time.Second

	maxResponseBytes = 1 << 20
)

// Client submits post snapshots to the video generation API.
// It neither logs nor persists; the caller owns both.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	backoff     Backoff
	sleep       SleepFunc
}

type Option func(*Client)

// WithHTTPClient replaces the default client (45s timeout per attempt).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(c *Client) {
		if b != nil {
			c.backoff = b
		}
	}
}

func WithSleep(fn SleepFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff(),
		sleep:       sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts the record to creds.APIEndpoint, retrying failed attempts
// after the backoff delay. It returns either a result or an *Error, never both.
func (c *Client) Submit(ctx context.Context, record model.PostRecord, creds model.Credentials) (*model.ExportResult, error) {
	if !creds.Configured() {
		return nil, &Error{Kind: KindConfiguration, Message: NotConfiguredMessage}
	}

	body, err := json.Marshal(NewPayload(record))
	if err != nil {
		return nil, exhaustedError(transportError(err), 0, c.maxAttempts)
	}

	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attempts = attempt
		result, err := c.send(ctx, creds, body)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}
		if err := c.sleep(ctx, c.backoff.Delay(attempt)); err != nil {
			lastErr = transportError(err)
			break
		}
	}

	return nil, exhaustedError(lastErr, attempts, c.maxAttempts)
}

func (c *Client) send(ctx context.Context, creds model.Credentials, body []byte) (*model.ExportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.APIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+creds.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, statusError(resp.StatusCode)
	}

	// Read failures are transport failures. A body over the limit is cut and
	// then handled like an unparseable one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(err)
	}
	return parseResult(data), nil
}

// parseResult reads status and export_id from the response body. Missing,
// non-string or unparseable values fall back to "pending" and "".
func parseResult(data []byte) *model.ExportResult {
	result := &model.ExportResult{Status: model.ExportStatusPending}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return result
	}
	if status, ok := fields["status"].(string); ok {
		result.Status = model.ExportStatus(status)
	}
	if id, ok := fields["export_id"].(string); ok {
		result.ExportID = id
	}
	return result
}
