package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochat/internal/domain"
)

func newTestLogger() *slog.Logger { return slog.Default() }

func TestSendMessageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "buy milk", req.Message)
		assert.Equal(t, "", req.ConversationID)

		json.NewEncoder(w).Encode(domain.SendResult{
			ConversationID: "c1",
			MessageID:      "m1",
			Response:       "Added!",
			ToolCalls: []domain.ToolCall{
				{ToolName: domain.ToolCreateTodo, OutputResult: &domain.ToolOutcome{Success: true}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger())
	res, err := c.SendMessage(context.Background(), domain.SendRequest{Message: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "c1", res.ConversationID)
	assert.Equal(t, "m1", res.MessageID)
	assert.Equal(t, "Added!", res.Response)
	require.Len(t, res.ToolCalls, 1)
	assert.True(t, res.ToolCalls[0].OutputResult.Success)
}

func TestSendMessageCarriesConversationID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make(map[string]any)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c7", body["conversation_id"])
		json.NewEncoder(w).Encode(domain.SendResult{ConversationID: "c7", MessageID: "m2", Response: "ok"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger())
	_, err := c.SendMessage(context.Background(), domain.SendRequest{Message: "hi", ConversationID: "c7"})
	require.NoError(t, err)
}

func TestSendMessageErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"rate limited"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger())
	_, err := c.SendMessage(context.Background(), domain.SendRequest{Message: "oops"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "rate limited", apiErr.UserMessage())
	assert.True(t, errors.Is(err, domain.ErrRateLimit))
	assert.Equal(t, "rate limited", domain.UserMessage(err, "fallback"))
}

func TestSendMessageMalformedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger())
	_, err := c.SendMessage(context.Background(), domain.SendRequest{Message: "hi"})
	require.Error(t, err)

	// No usable message in the payload: banner falls back to the generic text.
	assert.Equal(t, "fallback", domain.UserMessage(err, "fallback"))
}

func TestHistorySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/history", r.URL.Path)
		require.Equal(t, "25", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(domain.History{
			ConversationID: "c1",
			Messages: []domain.Message{
				{ID: "h1", Role: domain.RoleUser, Content: "earlier"},
				{ID: "h2", Role: domain.RoleAgent, Content: "reply"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger(), WithHistoryLimit(25))
	h, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c1", h.ConversationID)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, "earlier", h.Messages[0].Content)
}

func TestHistoryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Conversation not found"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "tok-1", newTestLogger())
	_, err := c.History(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoHistory))
}

func TestAuthFailureMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid or expired token"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "stale", newTestLogger())
	_, err := c.History(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthInvalid))
}

func TestRateLimiterHonorsContext(t *testing.T) {
	// Limiter with zero burst can never admit a request; a cancelled context
	// must unblock the wait.
	c := NewClient("http://unreachable.invalid", "tok", newTestLogger(), WithRateLimit(1, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SendMessage(ctx, domain.SendRequest{Message: "hi"})
	require.Error(t, err)
}
