package chat

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todochat/internal/adapter/tui/components"
	"todochat/internal/adapter/tui/theme"
	"todochat/internal/adapter/tui/uxerror"
	"todochat/internal/domain"
	"todochat/internal/usecase"
)

// ModelDeps are dependencies injected into the chat model.
type ModelDeps struct {
	Coordinator   *usecase.Coordinator
	Logger        *slog.Logger
	AssistantName string
	MaxMessages   int // transcript render cap, 0 = unlimited
}

// Model is the root Bubble Tea model for the chat TUI. It owns no session
// state: the transcript, pending flag, and banner text all live in the
// coordinator, and the view re-projects them after every state-changing
// message.
type Model struct {
	deps ModelDeps

	chatView  components.ChatViewModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	banner    components.ErrorBannerModel
	spinner   spinner.Model

	// waiting mirrors the coordinator's pending flag for rendering; the
	// coordinator itself is the authority and degrades overlapping sends to
	// no-ops regardless of what the UI does.
	waiting  bool
	width    int
	height   int
	quitting bool
}

// NewModel creates the root chat model.
func NewModel(deps ModelDeps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.AssistantName = deps.AssistantName
	sb.Hints = defaultHints()

	chatView := components.NewChatView()
	chatView.SetMaxMessages(deps.MaxMessages)

	return Model{
		deps:      deps,
		chatView:  chatView,
		input:     components.NewInputArea(),
		statusBar: sb,
		banner:    components.NewErrorBanner(),
		spinner:   s,
	}
}

// Init kicks off the spinner and the one-time history load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadHistoryCmd(m.deps.Coordinator),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case HistoryDoneMsg:
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNoHistory) {
			m.banner.Show(uxerror.Humanize(msg.Err).Render())
			m.layout()
		}
		m.refreshTranscript()
		return m, nil

	case SendDoneMsg:
		m.waiting = false
		m.input.SetEnabled(true)
		m.statusBar.Extra = ""
		if msg.Err != nil {
			m.banner.Show(uxerror.Humanize(msg.Err).Render())
		}
		m.refreshTranscript()
		m.layout()
		return m, nil

	case RefreshMsg:
		m.refreshTranscript()
		if m.waiting {
			cmds = append(cmds, refreshSoonCmd())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.waiting {
		if _, isMouse := msg.(tea.MouseMsg); !isMouse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the entire chat UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	parts := []string{}
	if m.banner.Visible() {
		parts = append(parts, m.banner.View())
	}
	parts = append(parts, m.chatView.View())

	inputView := m.input.View()
	if m.waiting {
		inputView = lipgloss.NewStyle().Faint(true).Render("> waiting for response...") +
			"\n" + m.spinner.View() + " " + m.statusBar.Extra
	}

	parts = append(parts, components.Divider(m.width), inputView, m.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout recalculates sizes for all sub-models.
func (m *Model) layout() {
	inputH := 4 // textarea + counter line
	statusH := 1
	dividerH := 1
	contentH := m.height - inputH - statusH - dividerH - m.banner.Height()
	if contentH < 5 {
		contentH = 5
	}

	m.statusBar.SetWidth(m.width)
	m.banner.SetWidth(m.width)
	m.chatView.SetSize(m.width, contentH)
	m.input.SetWidth(m.width)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		if m.banner.Visible() {
			// Dismissal clears the error only; no retry is attempted.
			m.banner.Dismiss()
			m.deps.Coordinator.DismissError()
			m.layout()
		}
		return m, nil

	case tea.KeyCtrlN:
		// New conversation is inert while a send is pending; the coordinator
		// additionally discards any in-flight response for the old session.
		if m.waiting {
			return m, nil
		}
		m.deps.Coordinator.NewConversation()
		m.banner.Dismiss()
		m.refreshTranscript()
		m.layout()
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit starts a send for captured input. The input area guarantees
// value is trimmed and non-empty; the coordinator re-validates anyway.
func (m Model) handleSubmit(value string) (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}

	m.banner.Dismiss()
	m.waiting = true
	m.input.SetEnabled(false)
	m.statusBar.Extra = theme.SymbolSpinner + " Thinking..."

	cmd := sendCmd(m.deps.Coordinator, value)

	// Show the optimistic message on the next frame: the coordinator appends
	// it as the first step of Send, so refresh shortly after dispatch.
	return m, tea.Batch(cmd, m.spinner.Tick, refreshSoonCmd())
}

// refreshTranscript re-projects the store into the chat view.
func (m *Model) refreshTranscript() {
	m.chatView.SetMessages(m.deps.Coordinator.Transcript().Messages())
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Send"},
		{Key: "Alt+Enter", Desc: "Newline"},
		{Key: "Ctrl+N", Desc: "New conversation"},
		{Key: "Esc", Desc: "Dismiss error"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}
