// Package chat implements the Bubble Tea chat surface for the todo
// assistant.
package chat

// HistoryDoneMsg signals that the initial history load finished.
type HistoryDoneMsg struct {
	Err error
}

// SendDoneMsg signals that a send operation ran to completion, successfully
// or not. The transcript and session flags are read back from the
// coordinator rather than carried here.
type SendDoneMsg struct {
	Err error
}

// RefreshMsg asks the model to re-project the transcript while a send is in
// flight, so the optimistic message becomes visible right after dispatch.
type RefreshMsg struct{}
