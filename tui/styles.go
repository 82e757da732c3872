package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#5EEAD4") // teal
	muted  = lipgloss.Color("#6B7280")
	alert  = lipgloss.Color("#EAB308") // yellow

	borderColor = lipgloss.Color("#374151")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1)

	chatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Foreground(lipgloss.Color("#D1D5DB"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB")).
			Bold(true)

	// Directed service notices stand out from the scrollback.
	serviceStyle = lipgloss.NewStyle().
			Foreground(alert).
			Bold(true)

	// Keep-alive probes are visible but de-emphasized.
	probeStyle = lipgloss.NewStyle().
			Foreground(muted)

	closedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	selfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")).
			Bold(true)

	sysStyle = lipgloss.NewStyle().
			Foreground(accent)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	tsStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDE68A"))
)
