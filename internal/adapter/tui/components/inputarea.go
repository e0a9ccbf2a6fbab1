package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todochat/internal/adapter/tui/theme"
	"todochat/internal/domain"
)

// InputSubmitMsg is sent when the user presses Enter to submit input. Value
// is already trimmed and non-empty.
type InputSubmitMsg struct {
	Value string
}

// InputAreaModel wraps a textarea with the capture policy: trim before
// submit, never submit blank input, cap content at the server's message
// bound, Enter submits while Alt+Enter inserts a newline.
type InputAreaModel struct {
	Textarea textarea.Model
	Enabled  bool
	width    int
}

// NewInputArea creates an input area with the chat capture defaults.
func NewInputArea() InputAreaModel {
	ta := textarea.New()
	ta.Placeholder = "Ask me to create, list, update, or delete tasks..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = domain.MaxMessageLen
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.Focus()

	return InputAreaModel{
		Textarea: ta,
		Enabled:  true,
	}
}

// SetWidth updates the textarea width.
func (m *InputAreaModel) SetWidth(w int) {
	m.width = w
	m.Textarea.SetWidth(w - 2) // account for border/padding
}

// SetEnabled enables or disables input (disabled while a send is pending).
func (m *InputAreaModel) SetEnabled(enabled bool) {
	m.Enabled = enabled
	if enabled {
		m.Textarea.Focus()
	} else {
		m.Textarea.Blur()
	}
}

// Reset clears the input.
func (m *InputAreaModel) Reset() {
	m.Textarea.Reset()
}

// Value returns the current input text.
func (m InputAreaModel) Value() string {
	return m.Textarea.Value()
}

// Update handles key events. Enter submits unless Alt is held, in which case
// the textarea inserts a literal newline.
func (m InputAreaModel) Update(msg tea.Msg) (InputAreaModel, tea.Cmd) {
	if !m.Enabled {
		return m, nil
	}

	// The textarea should never receive mouse events.
	if _, ok := msg.(tea.MouseMsg); ok {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter && !keyMsg.Alt {
			value := strings.TrimSpace(m.Textarea.Value())
			if value == "" {
				// Blank input: swallow the keypress, no submission.
				return m, nil
			}
			m.Textarea.Reset()
			return m, func() tea.Msg {
				return InputSubmitMsg{Value: value}
			}
		}
	}

	var cmd tea.Cmd
	m.Textarea, cmd = m.Textarea.Update(msg)
	return m, cmd
}

// View renders the input area with the character counter underneath.
func (m InputAreaModel) View() string {
	counter := theme.TextMuted.Render(fmt.Sprintf("%d/%d characters | Enter to send, Alt+Enter for new line",
		len([]rune(m.Textarea.Value())), domain.MaxMessageLen))
	return m.Textarea.View() + "\n" + counter
}
