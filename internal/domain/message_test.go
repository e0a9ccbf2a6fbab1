package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMessageJSONRoundTrip(t *testing.T) {
	msg := Message{
		ID:        "user-01ABC",
		Role:      RoleUser,
		Content:   "buy milk",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"created_at"`) {
		t.Errorf("expected snake_case created_at field, got %s", data)
	}

	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != msg.ID || got.Role != msg.Role || got.Content != msg.Content {
		t.Errorf("got %+v, want %+v", got, msg)
	}
}

func TestToolCallAbsentOutcome(t *testing.T) {
	// output_result omitted entirely means "no outcome annotation", not failure.
	var tc ToolCall
	if err := json.Unmarshal([]byte(`{"tool_name":"list_todos"}`), &tc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tc.OutputResult != nil {
		t.Errorf("expected nil OutputResult, got %+v", tc.OutputResult)
	}

	if err := json.Unmarshal([]byte(`{"tool_name":"create_todo","output_result":{"success":true,"todo_id":"t1"}}`), &tc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tc.OutputResult == nil || !tc.OutputResult.Success {
		t.Errorf("expected successful outcome, got %+v", tc.OutputResult)
	}
}

func TestIsProvisional(t *testing.T) {
	if !IsProvisional(ProvisionalIDPrefix + "01ABC") {
		t.Error("temp-prefixed id should be provisional")
	}
	if IsProvisional(UserIDPrefix + "01ABC") {
		t.Error("user-prefixed id should not be provisional")
	}
	if IsProvisional("9f2c-server-issued") {
		t.Error("server id should not be provisional")
	}
}
