package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationModel handles inline yes/no prompts
type ConfirmationModel struct {
	active      bool
	message     string
	destructive bool
	onConfirm   func() tea.Cmd
	onCancel    func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the confirmation. Either callback may be nil.
func (m *ConfirmationModel) Show(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.message = message
	m.destructive = destructive
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation. Keys other than y, n and
// esc are swallowed while it is shown.
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}
	return nil
}

// View renders the prompt, centered when width is known.
func (m *ConfirmationModel) View(width int) string {
	if !m.active {
		return ""
	}
	message := fmt.Sprintf("%s %s", m.message, formatConfirmOptions(m.destructive))
	if width > 0 && lipgloss.Width(message) < width {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(message)
	}
	return message
}
