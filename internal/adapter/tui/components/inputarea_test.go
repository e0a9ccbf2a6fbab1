package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochat/internal/domain"
)

func typeRunes(m InputAreaModel, s string) InputAreaModel {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestEnterSubmitsTrimmedValue(t *testing.T) {
	m := NewInputArea()
	m = typeRunes(m, "  buy milk  ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(InputSubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "buy milk", msg.Value)

	// Submission clears the draft; it is not restored on failure either.
	assert.Empty(t, m.Value())
}

func TestEnterOnBlankInputIsSwallowed(t *testing.T) {
	m := NewInputArea()
	m = typeRunes(m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnterOnEmptyInputIsSwallowed(t *testing.T) {
	m := NewInputArea()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestAltEnterDoesNotSubmit(t *testing.T) {
	m := NewInputArea()
	m = typeRunes(m, "line one")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	if cmd != nil {
		_, submitted := cmd().(InputSubmitMsg)
		assert.False(t, submitted)
	}
}

func TestDisabledInputIgnoresKeys(t *testing.T) {
	m := NewInputArea()
	m.SetEnabled(false)

	m = typeRunes(m, "should not appear")
	assert.Empty(t, m.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestCharLimitBoundsDraft(t *testing.T) {
	m := NewInputArea()
	m.Textarea.SetValue(strings.Repeat("a", domain.MaxMessageLen+500))
	assert.LessOrEqual(t, len([]rune(m.Value())), domain.MaxMessageLen)
}

func TestViewShowsCharacterCounter(t *testing.T) {
	m := NewInputArea()
	m.SetWidth(80)
	m = typeRunes(m, "hello")
	assert.Contains(t, m.View(), "5/2000 characters")
}
