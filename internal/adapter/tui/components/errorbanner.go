package components

import (
	"todochat/internal/adapter/tui/theme"
)

// ErrorBannerModel is the single dismissible error region shown above the
// transcript. Errors are never transcript entries; dismissing the banner only
// clears the text, it implies no retry.
type ErrorBannerModel struct {
	Message string
	width   int
}

// NewErrorBanner creates an empty banner.
func NewErrorBanner() ErrorBannerModel {
	return ErrorBannerModel{}
}

// SetWidth updates the available width.
func (m *ErrorBannerModel) SetWidth(w int) {
	m.width = w
}

// Show sets the banner text.
func (m *ErrorBannerModel) Show(msg string) {
	m.Message = msg
}

// Dismiss clears the banner.
func (m *ErrorBannerModel) Dismiss() {
	m.Message = ""
}

// Visible reports whether the banner should render.
func (m ErrorBannerModel) Visible() bool {
	return m.Message != ""
}

// Height returns the rendered height in lines, 0 when hidden.
func (m ErrorBannerModel) Height() int {
	if !m.Visible() {
		return 0
	}
	return 3 // one content line plus the rounded border
}

// View renders the banner.
func (m ErrorBannerModel) View() string {
	if !m.Visible() {
		return ""
	}
	text := theme.SymbolError + " " + m.Message + "  " + theme.Dim.Render("(Esc to dismiss)")
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return theme.ErrorBanner.Width(w).Render(text)
}
