// Package components holds the reusable Bubble Tea sub-models of the chat
// surface. They are pure projections: none of them own session state.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"todochat/internal/adapter/tui/theme"
	"todochat/internal/domain"
)

// MessageListModel renders the transcript snapshot handed to it by the chat
// model. Rendering is idempotent: the same snapshot always yields the same
// output, with glamour renders cached per message.
type MessageListModel struct {
	Messages    []domain.Message
	MaxMessages int // 0 = unlimited; positive = render only the newest N
	width       int
	rendered    map[string]string // message id -> cached glamour output
	mdRenderer  *glamour.TermRenderer
}

// NewMessageList creates an empty message list.
func NewMessageList() MessageListModel {
	return MessageListModel{rendered: make(map[string]string)}
}

// SetWidth updates the rendering width and clears cached renders.
func (m *MessageListModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil // force re-creation with new width
	m.rendered = make(map[string]string)
}

// SetMessages installs a fresh transcript snapshot.
func (m *MessageListModel) SetMessages(msgs []domain.Message) {
	m.Messages = msgs
	// Drop caches for ids that left the transcript (rollback, reset).
	live := make(map[string]struct{}, len(msgs))
	for _, msg := range msgs {
		live[msg.ID] = struct{}{}
	}
	for id := range m.rendered {
		if _, ok := live[id]; !ok {
			delete(m.rendered, id)
		}
	}
}

// View renders all messages as a single string.
func (m *MessageListModel) View() string {
	msgs := m.Messages
	var trimmed int
	if m.MaxMessages > 0 && len(msgs) > m.MaxMessages {
		trimmed = len(msgs) - m.MaxMessages
		msgs = msgs[trimmed:]
	}
	if len(msgs) == 0 {
		return theme.TextMuted.Render("  No messages yet. Ask me to create, list, update, or delete tasks.")
	}

	contentWidth := ContentWidth(m.width)

	var sb strings.Builder
	if trimmed > 0 {
		sb.WriteString(theme.TextMuted.Render(fmt.Sprintf("  (%d older messages hidden)", trimmed)) + "\n\n")
	}
	for i := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(&msgs[i], contentWidth))
	}
	return sb.String()
}

func (m *MessageListModel) renderMessage(msg *domain.Message, width int) string {
	label := roleLabel(msg.Role)
	ts := RelativeTime(msg.CreatedAt)
	header := label + " " + theme.Timestamp.Render(ts)
	if domain.IsProvisional(msg.ID) {
		header += " " + theme.Dim.Render("(sending)")
	}
	headerWidth := lipgloss.Width(header)

	toolSummary := renderToolCalls(msg.ToolCalls, width)

	var body string
	switch msg.Role {
	case domain.RoleAgent:
		cached, ok := m.rendered[msg.ID]
		if !ok {
			cached = m.renderMarkdown(msg.Content, width)
			m.rendered[msg.ID] = cached
		}
		body = strings.TrimSpace(cached)
	default:
		inlineW := width - headerWidth - 2
		if inlineW < 20 {
			inlineW = width - 2
		}
		body = wrapText(msg.Content, inlineW)
	}

	if body == "" {
		if toolSummary != "" {
			return header + "\n" + toolSummary
		}
		return header
	}
	if toolSummary != "" {
		return header + "\n" + toolSummary + body
	}
	if width-headerWidth-2 < 20 {
		return header + "\n  " + body
	}

	lines := strings.SplitN(body, "\n", 2)
	result := header + "  " + strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		result += "\n" + lines[1]
	}
	return result
}

// ToolCallLabel maps a tool name to its display label. The enumeration is
// closed; unknown tools fall through to the bare name so new server-side
// tools degrade gracefully instead of erroring.
func ToolCallLabel(name string) string {
	switch name {
	case domain.ToolCreateTodo:
		return "Created task"
	case domain.ToolListTodos:
		return "Listed tasks"
	case domain.ToolUpdateTodo:
		return "Updated task"
	case domain.ToolDeleteTodo:
		return "Deleted task"
	case domain.ToolMarkComplete:
		return "Marked task complete"
	default:
		return name
	}
}

// renderToolCalls renders a compact list of the actions the agent took while
// producing a message. A nil outcome renders without any success/failure
// marker.
func renderToolCalls(calls []domain.ToolCall, width int) string {
	if len(calls) == 0 {
		return ""
	}
	maxLen := width - 6
	if maxLen < 10 {
		maxLen = 10
	}

	var sb strings.Builder
	for _, tc := range calls {
		marker := " "
		if tc.OutputResult != nil {
			if tc.OutputResult.Success {
				marker = theme.TextSuccess.Render(theme.SymbolSuccess)
			} else {
				marker = theme.TextError.Render(theme.SymbolError)
			}
		}
		label := ToolCallLabel(tc.ToolName)
		if len(label) > maxLen {
			label = label[:maxLen-3] + "..."
		}
		sb.WriteString("  " + marker + " " + theme.Dim.Render(label) + "\n")
	}
	return sb.String()
}

func roleLabel(role string) string {
	switch role {
	case domain.RoleUser:
		return theme.UserLabel.Render(theme.SymbolUser)
	case domain.RoleAgent:
		return theme.AgentLabel.Render("Assistant")
	case domain.RoleSystem:
		return theme.SystemLabel.Render("System")
	default:
		return theme.TextMuted.Render(role)
	}
}

func (m *MessageListModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

// RelativeTime returns a human-readable relative time string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

// wrapText wraps text to the given width with a 2-space indent on
// continuation lines. Rune-based indexing handles multibyte UTF-8.
func wrapText(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	var lines []string
	for len(runes) > width {
		idx := -1
		for i := width - 1; i > 0; i-- {
			if runes[i] == ' ' {
				idx = i
				break
			}
		}
		if idx <= 0 {
			idx = width
		}
		lines = append(lines, string(runes[:idx]))
		runes = runes[idx:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n  ")
}

// ContentWidth calculates the content width respecting MaxContentWidth.
func ContentWidth(termWidth int) int {
	w := termWidth - 4
	if w > theme.MaxContentWidth {
		w = theme.MaxContentWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Divider renders a horizontal line at the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
