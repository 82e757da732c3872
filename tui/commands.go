package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// commandHandler runs one slash command.  A returned error is shown in
// the scrollback; a non-nil tea.Cmd is handed back to the runtime.
type commandHandler func(m *Model, args []string) (tea.Cmd, error)

// registerCommands builds the slash-command table.  Aliases share a
// handler.
func registerCommands() map[string]commandHandler {
	h := map[string]commandHandler{
		"/help":     cmdHelp,
		"/clear":    cmdClear,
		"/join":     cmdJoin,
		"/msg":      cmdMsg,
		"/nickserv": cmdNickserv,
		"/stats":    cmdStats,
		"/raw":      cmdRaw,
		"/quit":     cmdQuit,
	}
	h["/exit"] = h["/quit"]
	return h
}

// completeCommand returns the sorted command names matching prefix.
func completeCommand(handlers map[string]commandHandler, prefix string) []string {
	var matches []string
	for name := range handlers {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// runCommand dispatches one entered slash command.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(text)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	handler, ok := m.handlers[name]
	if !ok {
		m.addErr("Unknown command: " + name + " (try /help)")
		return m, nil
	}
	cmd, err := handler(&m, args)
	if err != nil {
		m.addErr(err.Error())
	}
	return m, cmd
}

func cmdHelp(m *Model, _ []string) (tea.Cmd, error) {
	m.addSys("Commands:")
	m.addSys("  /join <channel>      join a channel (# optional)")
	m.addSys("  /msg <nick> <text>   send a private message")
	m.addSys("  /nickserv <text>     message the nickname service")
	m.addSys("  /stats               show session counters")
	m.addSys("  /raw <line>          send a raw protocol line")
	m.addSys("  /clear               clear the scrollback")
	m.addSys("  /quit, /exit         disconnect and leave")
	m.addSys("Tab completes commands; Up/Down browse input history.")
	return nil, nil
}

func cmdClear(m *Model, _ []string) (tea.Cmd, error) {
	m.lines = nil
	m.refreshChat()
	return nil, nil
}

func cmdJoin(m *Model, args []string) (tea.Cmd, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /join <channel>")
	}
	channel := args[0]
	if !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}
	if err := m.session.Join(channel); err != nil {
		return nil, fmt.Errorf("join failed: %w", err)
	}
	m.addSys("Joining " + channel + "...")
	return nil, nil
}

func cmdMsg(m *Model, args []string) (tea.Cmd, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /msg <nick> <message>")
	}
	target := args[0]
	text := strings.Join(args[1:], " ")
	if err := m.session.SendMessage(target, text); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}
	m.addLine(m.stamp() + " " + selfStyle.Render("["+target+"] <"+m.session.Nick()+">") + " " + text)
	return nil, nil
}

func cmdNickserv(m *Model, args []string) (tea.Cmd, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /nickserv <message>")
	}
	text := strings.Join(args, " ")
	if err := m.session.SendMessage("NickServ", text); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}
	m.addSys("-> NickServ: " + text)
	return nil, nil
}

func cmdStats(m *Model, _ []string) (tea.Cmd, error) {
	stats := m.session.Stats()
	if stats == nil {
		return nil, fmt.Errorf("metrics are disabled")
	}
	for _, line := range strings.Split(stats.JSON(), "\n") {
		m.addSys(line)
	}
	return nil, nil
}

func cmdRaw(m *Model, args []string) (tea.Cmd, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /raw <line>")
	}
	line := strings.Join(args, " ")
	if err := m.session.SendRaw(line); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}
	m.addSys("-> " + line)
	return nil, nil
}

func cmdQuit(m *Model, _ []string) (tea.Cmd, error) {
	m.quitting = true
	m.session.Disconnect()
	return tea.Quit, nil
}
