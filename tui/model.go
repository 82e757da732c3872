// Package tui renders the chat session in the terminal: a scrollback
// viewport, an input line with slash commands, and a status bar.  It
// is a pure consumer of the session engine — all network state lives
// in irc.Session, all inbound traffic arrives on the event channel.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tanishkshk1/Irconic/config"
	"github.com/Tanishkshk1/Irconic/irc"
	"github.com/Tanishkshk1/Irconic/util"
)

// eventMsg is one inbound session event delivered to Update.
type eventMsg string

// eventsClosedMsg signals that the receiver has shut down and no
// further events will arrive.
type eventsClosedMsg struct{}

// tickMsg drives the status-bar clock.
type tickMsg time.Time

// Model is the bubbletea model for the chat screen.
type Model struct {
	session *irc.Session
	events  <-chan string
	logger  *util.Logger

	chat  viewport.Model
	input textinput.Model

	lines    []string // rendered scrollback, capped at config.HistoryLimit
	closed   bool     // receiver has shut down
	quitting bool

	inputHistory []string
	historyIndex int // -1 when not browsing
	historyTemp  string

	completions []string // current tab-completion cycle
	completeIdx int

	handlers map[string]commandHandler

	currentTime   time.Time
	width, height int
	ready         bool
}

// New builds the chat screen around an already-connected session and
// its event channel.
func New(session *irc.Session, events <-chan string, logger *util.Logger) Model {
	inp := textinput.New()
	inp.Placeholder = "Type a message or /help"
	inp.Prompt = "> "
	inp.CharLimit = 400
	inp.Focus()

	m := Model{
		session:      session,
		events:       events,
		logger:       logger,
		chat:         viewport.New(80, 20),
		input:        inp,
		historyIndex: -1,
		currentTime:  time.Now(),
	}
	m.handlers = registerCommands()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(), waitForEvent(m.events))
}

// waitForEvent blocks on the session's event channel and converts the
// next event into a message.  Channel closure means the receiver is
// gone for good.
func waitForEvent(events <-chan string) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// addLine appends one rendered line to the scrollback, dropping the
// oldest lines beyond the history cap.
func (m *Model) addLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > config.HistoryLimit {
		m.lines = m.lines[len(m.lines)-config.HistoryLimit:]
	}
	m.refreshChat()
}

func (m *Model) refreshChat() {
	content := ""
	for i, l := range m.lines {
		if i > 0 {
			content += "\n"
		}
		content += l
	}
	m.chat.SetContent(content)
	m.chat.GotoBottom()
}

func (m *Model) stamp() string {
	return tsStyle.Render(time.Now().Format("15:04"))
}

func (m *Model) addSys(text string) {
	m.addLine(m.stamp() + " " + sysStyle.Render(text))
}

func (m *Model) addErr(text string) {
	m.addLine(m.stamp() + " " + errStyle.Render("✗ "+text))
}
