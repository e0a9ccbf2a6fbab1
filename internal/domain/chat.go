package domain

import "context"

// SendRequest is the payload for the chat endpoint. ConversationID is empty
// for the first message of a brand-new session; the server then starts a new
// conversation and issues an id.
type SendRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SendResult is the server's reply to a chat message. MessageID identifies
// the agent's message only; the user message gets a client-synthesized
// durable id at reconciliation time.
type SendResult struct {
	ConversationID string     `json:"conversation_id"`
	MessageID      string     `json:"message_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls,omitempty"`
}

// History is the prior state of the active conversation, chronological order.
type History struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// ChatService is the transport boundary to the todo assistant. History
// returns ErrNoHistory (possibly wrapped) when the user has no prior
// conversation, which callers treat as an empty session rather than a fault.
type ChatService interface {
	SendMessage(ctx context.Context, req SendRequest) (*SendResult, error)
	History(ctx context.Context) (*History, error)
}
