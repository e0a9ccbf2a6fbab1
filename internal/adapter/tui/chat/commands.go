package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todochat/internal/usecase"
)

// sendCmd runs one send operation in a background goroutine. The coordinator
// serializes sends internally; by the time SendDoneMsg arrives the transcript
// is fully reconciled or rolled back.
func sendCmd(coord *usecase.Coordinator, text string) tea.Cmd {
	return func() tea.Msg {
		err := coord.Send(context.Background(), text)
		return SendDoneMsg{Err: err}
	}
}

// loadHistoryCmd fetches prior conversation state once at startup.
func loadHistoryCmd(coord *usecase.Coordinator) tea.Cmd {
	return func() tea.Msg {
		err := coord.LoadHistory(context.Background())
		return HistoryDoneMsg{Err: err}
	}
}

// refreshSoonCmd schedules a near-immediate transcript re-projection, giving
// the coordinator a frame to finish its optimistic append.
func refreshSoonCmd() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(time.Time) tea.Msg {
		return RefreshMsg{}
	})
}
