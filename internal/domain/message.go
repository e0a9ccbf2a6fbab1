package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Role constants for message roles. RoleSystem is reserved for client-side
// annunciations and never travels over the wire.
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

// Tool names the todo agent may report in a response. The set is closed;
// unknown names still render, just without a friendly label.
const (
	ToolCreateTodo   = "create_todo"
	ToolListTodos    = "list_todos"
	ToolUpdateTodo   = "update_todo"
	ToolDeleteTodo   = "delete_todo"
	ToolMarkComplete = "mark_todo_complete"
)

// MaxMessageLen is the server-enforced bound on message content, re-checked
// at capture time. The transcript store itself accepts any string.
const MaxMessageLen = 2000

// Id namespaces. Provisional ids exist only between optimistic append and
// reconciliation; durable user ids are synthesized at reconciliation time.
// Agent message ids come from the server verbatim, so the prefixes guarantee
// the three spaces never collide.
const (
	ProvisionalIDPrefix = "temp-"
	UserIDPrefix        = "user-"
)

// IsProvisional reports whether id belongs to the provisional namespace.
func IsProvisional(id string) bool {
	return strings.HasPrefix(id, ProvisionalIDPrefix)
}

// ToolOutcome is the success/failure annotation on a tool call. A nil
// *ToolOutcome means the server reported no outcome, which is not a failure.
type ToolOutcome struct {
	Success bool `json:"success"`
}

// ToolCall describes one side-effecting action the agent took while
// producing a message.
type ToolCall struct {
	ToolName     string          `json:"tool_name"`
	InputParams  json.RawMessage `json:"input_params,omitempty"`
	OutputResult *ToolOutcome    `json:"output_result,omitempty"`
}

// Message is a single transcript entry.
type Message struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}
