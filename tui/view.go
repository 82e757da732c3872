package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	title := titleStyle.Render(m.titleText())
	chatBox := chatBoxStyle.
		Width(m.chat.Width).
		Height(m.chat.Height).
		Render(m.chat.View())
	inputBox := inputBoxStyle.Width(m.width - 2).Render(m.input.View())
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, title, chatBox, inputBox, status)
}

// titleText mirrors the connection state: server and joined channel.
func (m Model) titleText() string {
	server := m.session.Server()
	if server == "" {
		server = "(disconnected)"
	}
	channel := m.session.CurrentChannel()
	if channel == "" {
		channel = "(none)"
	}
	return "Server: " + server + " - Channel: " + channel
}

func (m Model) renderStatusBar() string {
	help := statusKeyStyle.Render("Enter") + " send • " +
		statusKeyStyle.Render("Tab") + " complete • " +
		statusKeyStyle.Render("PgUp/PgDn") + " scroll • " +
		statusKeyStyle.Render("Esc") + " quit"
	if m.closed {
		help = closedStyle.Render("receiver stopped") + " • " + help
	}
	clock := statusKeyStyle.Render(m.currentTime.Format("15:04:05"))

	avail := m.width - 2
	clockWidth := lipgloss.Width(clock)
	helpWidth := avail - clockWidth
	if helpWidth < 0 {
		helpWidth = 0
	}

	left := lipgloss.PlaceHorizontal(helpWidth, lipgloss.Left, help)
	right := lipgloss.PlaceHorizontal(clockWidth, lipgloss.Right, clock)
	return statusBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}
