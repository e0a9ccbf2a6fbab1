// Package api implements the HTTP transport to the todo assistant service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"todochat/internal/domain"
)

const (
	chatPath    = "/api/chat"
	historyPath = "/api/chat/history"
)

// APIError is a structured error returned by the service. Message comes from
// the server's {error:{message}} envelope and is safe to show in the banner.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// UserMessage implements domain.UserMessager.
func (e *APIError) UserMessage() string { return e.Message }

// Unwrap maps well-known statuses onto domain sentinels so callers can use
// errors.Is without knowing HTTP.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthInvalid
	case http.StatusTooManyRequests:
		return domain.ErrRateLimit
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.ErrUnavailable
	default:
		return nil
	}
}

// errorEnvelope is the service's error response shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit bounds outgoing requests to r per second with burst b.
func WithRateLimit(r rate.Limit, b int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, b) }
}

// WithHistoryLimit sets the max number of messages requested on history
// loads. The server caps it at 100.
func WithHistoryLimit(n int) Option {
	return func(c *Client) { c.historyLimit = n }
}

// Client talks JSON over HTTP to the todo assistant, attaching the bearer
// credential it was constructed with. It holds no session state; the
// conversation id travels in each request.
type Client struct {
	baseURL      string
	token        string
	client       *http.Client
	logger       *slog.Logger
	limiter      *rate.Limiter
	historyLimit int
}

var _ domain.ChatService = (*Client)(nil)

// NewClient creates a transport client. The token is injected here rather
// than read from ambient storage so the client stays testable.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		logger:  logger,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SendMessage implements domain.ChatService.
func (c *Client) SendMessage(ctx context.Context, req domain.SendRequest) (*domain.SendResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send chat message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asAPIError(resp)
	}

	var result domain.SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	c.logger.Debug("chat message sent",
		"conversation_id", result.ConversationID,
		"tool_calls", len(result.ToolCalls),
		"duration", time.Since(start))
	return &result, nil
}

// History implements domain.ChatService. A 404 means the user has no prior
// conversation and maps to domain.ErrNoHistory.
func (c *Client) History(ctx context.Context) (*domain.History, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + historyPath
	if c.historyLimit > 0 {
		url += "?limit=" + strconv.Itoa(c.historyLimit)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get chat history: %w", domain.ErrNoHistory)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.asAPIError(resp)
	}

	var history domain.History
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return &history, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// asAPIError converts a non-200 response into an *APIError, pulling the
// human-readable message out of the error envelope when one is present.
func (c *Client) asAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
	}

	c.logger.Warn("api request failed",
		"status", resp.StatusCode,
		"code", apiErr.Code,
		"message", apiErr.Message)
	return apiErr
}
