package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tanishkshk1/Irconic/irc"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tickMsg:
		m.currentTime = time.Time(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, tickCmd()

	case eventMsg:
		m.addLine(renderEvent(string(msg)))
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.closed = true
		m.addErr("Receiver stopped; no further server traffic.")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// renderEvent styles one session event by its annotation.
func renderEvent(ev string) string {
	ts := tsStyle.Render(time.Now().Format("15:04"))
	switch {
	case strings.HasPrefix(ev, irc.ServiceEventPrefix):
		return ts + " " + serviceStyle.Render(ev)
	case strings.HasPrefix(ev, irc.ProbeEventPrefix):
		return ts + " " + probeStyle.Render(ev)
	case ev == irc.ClosedEvent:
		return ts + " " + closedStyle.Render(ev)
	default:
		return ts + " " + ev
	}
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height

	// Title (1) + chat borders (2) + input box (3) + status bar (1).
	chatHeight := m.height - 7
	if chatHeight < 3 {
		chatHeight = 3
	}
	m.chat.Width = m.width - 2
	m.chat.Height = chatHeight
	m.input.Width = m.width - 6
	m.ready = true
	m.refreshChat()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key other than tab ends a completion cycle.
	if msg.String() != "tab" {
		m.completions = nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.quit()

	case "tab":
		m.cycleCompletion()
		return m, nil

	case "up":
		m.historyBack()
		return m, nil

	case "down":
		m.historyForward()
		return m, nil

	case "pgup":
		m.chat.ViewUp()
		return m, nil

	case "pgdown":
		m.chat.ViewDown()
		return m, nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// quit performs the orderly shutdown: the session gets a best-effort
// QUIT via Disconnect before the program exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.quitting {
		m.quitting = true
		m.session.Disconnect()
	}
	return m, tea.Quit
}

// submit processes one entered line: a slash command, or chat text for
// the current channel.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.pushHistory(text)
	m.input.SetValue("")

	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	channel := m.session.CurrentChannel()
	if channel == "" {
		m.addErr("Not in a channel. Use /join <channel> first.")
		return m, nil
	}
	if err := m.session.SendMessage(channel, text); err != nil {
		m.addErr("Send failed: " + err.Error())
		return m, nil
	}
	m.addLine(m.stamp() + " " + selfStyle.Render("<"+m.session.Nick()+">") + " " + text)
	return m, nil
}

// ── input history ────────────────────────────────────────────────────

func (m *Model) pushHistory(text string) {
	if n := len(m.inputHistory); n == 0 || m.inputHistory[n-1] != text {
		m.inputHistory = append(m.inputHistory, text)
		if len(m.inputHistory) > 100 {
			m.inputHistory = m.inputHistory[1:]
		}
	}
	m.historyIndex = -1
	m.historyTemp = ""
}

func (m *Model) historyBack() {
	if len(m.inputHistory) == 0 {
		return
	}
	if m.historyIndex == -1 {
		m.historyTemp = m.input.Value()
		m.historyIndex = len(m.inputHistory) - 1
	} else if m.historyIndex > 0 {
		m.historyIndex--
	}
	m.input.SetValue(m.inputHistory[m.historyIndex])
	m.input.CursorEnd()
}

func (m *Model) historyForward() {
	if m.historyIndex == -1 {
		return
	}
	if m.historyIndex < len(m.inputHistory)-1 {
		m.historyIndex++
		m.input.SetValue(m.inputHistory[m.historyIndex])
	} else {
		m.historyIndex = -1
		m.input.SetValue(m.historyTemp)
	}
	m.input.CursorEnd()
}

// ── tab completion ───────────────────────────────────────────────────

// cycleCompletion completes the current slash-command prefix, cycling
// through all matches on repeated presses.
func (m *Model) cycleCompletion() {
	if m.completions == nil {
		prefix := m.input.Value()
		if !strings.HasPrefix(prefix, "/") || strings.Contains(prefix, " ") {
			return
		}
		m.completions = completeCommand(m.handlers, prefix)
		m.completeIdx = 0
	}
	if len(m.completions) == 0 {
		return
	}
	m.input.SetValue(m.completions[m.completeIdx])
	m.input.CursorEnd()
	m.completeIdx = (m.completeIdx + 1) % len(m.completions)
}
