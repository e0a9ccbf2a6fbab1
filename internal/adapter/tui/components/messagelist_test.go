package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochat/internal/adapter/tui/theme"
	"todochat/internal/domain"
)

func TestToolCallLabel(t *testing.T) {
	cases := map[string]string{
		domain.ToolCreateTodo:   "Created task",
		domain.ToolListTodos:    "Listed tasks",
		domain.ToolUpdateTodo:   "Updated task",
		domain.ToolDeleteTodo:   "Deleted task",
		domain.ToolMarkComplete: "Marked task complete",
	}
	for name, want := range cases {
		assert.Equal(t, want, ToolCallLabel(name))
	}

	// Unknown tools fall through to the bare name.
	assert.Equal(t, "archive_todo", ToolCallLabel("archive_todo"))
}

func TestRenderToolCallsOutcomeMarkers(t *testing.T) {
	ok := true
	fail := false

	out := renderToolCalls([]domain.ToolCall{
		{ToolName: domain.ToolCreateTodo, OutputResult: &domain.ToolOutcome{Success: ok}},
		{ToolName: domain.ToolDeleteTodo, OutputResult: &domain.ToolOutcome{Success: fail}},
		{ToolName: domain.ToolListTodos}, // no reported outcome
	}, 80)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], theme.SymbolSuccess)
	assert.Contains(t, lines[0], "Created task")
	assert.Contains(t, lines[1], theme.SymbolError)
	assert.Contains(t, lines[1], "Deleted task")
	assert.NotContains(t, lines[2], theme.SymbolSuccess)
	assert.NotContains(t, lines[2], theme.SymbolError)
	assert.Contains(t, lines[2], "Listed tasks")
}

func TestRenderToolCallsEmpty(t *testing.T) {
	assert.Empty(t, renderToolCalls(nil, 80))
}

func TestViewEmptyTranscript(t *testing.T) {
	m := NewMessageList()
	m.SetWidth(80)
	assert.Contains(t, m.View(), "No messages yet")
}

func TestViewProvisionalMarker(t *testing.T) {
	m := NewMessageList()
	m.SetWidth(80)
	m.SetMessages([]domain.Message{
		{ID: "temp-01ABC", Role: domain.RoleUser, Content: "buy milk", CreatedAt: time.Now()},
	})

	view := m.View()
	assert.Contains(t, view, "(sending)")
	assert.Contains(t, view, "buy milk")
}

func TestViewDurableUserMessageHasNoMarker(t *testing.T) {
	m := NewMessageList()
	m.SetWidth(80)
	m.SetMessages([]domain.Message{
		{ID: "user-01ABC", Role: domain.RoleUser, Content: "buy milk", CreatedAt: time.Now()},
	})

	assert.NotContains(t, m.View(), "(sending)")
}

func TestViewMaxMessagesHidesOlder(t *testing.T) {
	m := NewMessageList()
	m.SetWidth(80)
	m.MaxMessages = 2
	m.SetMessages([]domain.Message{
		{ID: "user-1", Role: domain.RoleUser, Content: "first"},
		{ID: "user-2", Role: domain.RoleUser, Content: "second"},
		{ID: "user-3", Role: domain.RoleUser, Content: "third"},
	})

	view := m.View()
	assert.Contains(t, view, "(1 older messages hidden)")
	assert.NotContains(t, view, "first")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "third")
}

func TestSetMessagesDropsStaleRenderCache(t *testing.T) {
	m := NewMessageList()
	m.SetWidth(80)
	m.rendered["temp-gone"] = "cached"
	m.rendered["user-kept"] = "cached"

	m.SetMessages([]domain.Message{{ID: "user-kept", Role: domain.RoleUser, Content: "hi"}})

	_, gone := m.rendered["temp-gone"]
	_, kept := m.rendered["user-kept"]
	assert.False(t, gone)
	assert.True(t, kept)
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "", RelativeTime(time.Time{}))
	assert.Equal(t, "just now", RelativeTime(now.Add(-30*time.Second)))
	assert.Equal(t, "5m ago", RelativeTime(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", RelativeTime(now.Add(-3*time.Hour)))

	old := now.Add(-48 * time.Hour)
	assert.Equal(t, old.Format("Jan 2 15:04"), RelativeTime(old))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short", wrapText("short", 40))

	wrapped := wrapText("one two three four five", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len([]rune(strings.TrimPrefix(line, "  "))), 10)
	}

	// No spaces: hard break at width rather than overflow.
	hard := wrapText(strings.Repeat("a", 25), 10)
	assert.Equal(t, 3, len(strings.Split(hard, "\n")))
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 40, ContentWidth(20)) // floor
	assert.Equal(t, 76, ContentWidth(80))
	assert.Equal(t, theme.MaxContentWidth, ContentWidth(300)) // cap
}
