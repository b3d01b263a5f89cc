package widget

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andromeda/focus/timer"
)

const sentFeedback = 800 * time.Millisecond

type keymap struct {
	pause  key.Binding
	resume key.Binding
	skip   key.Binding
	hide   key.Binding
	quit   key.Binding
}

var defaultKeymap = keymap{
	pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	resume: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resume"),
	),
	skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip"),
	),
	hide: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "show/hide"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

type (
	pollMsg       time.Time
	stateMsg      timer.State
	visibilityMsg bool
	clearSentMsg  struct{}
)

var (
	timeStyle   = lipgloss.NewStyle().Bold(true)
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0DB43"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	widgetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#12EAEA")).
			Padding(0, 1)
)

// Model renders the shared pomodoro state and forwards control keys to the
// process that owns the flow.
type Model struct {
	bridge   *timer.Bridge
	relay    *timer.Relay
	now      func() time.Time
	events   chan tea.Msg
	done     chan struct{}
	cancels  []func()
	sent     string
	help     help.Model
	state    timer.State
	label    Label
	interval time.Duration
	visible  bool
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithPollInterval changes how often the shared state is re-read.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// New returns a widget over the shared state in bridge.
func New(bridge *timer.Bridge, relay *timer.Relay, opts ...Option) *Model {
	m := &Model{
		bridge:   bridge,
		relay:    relay,
		now:      time.Now,
		events:   make(chan tea.Msg, 16),
		done:     make(chan struct{}),
		help:     help.New(),
		interval: PollInterval,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.refresh(bridge.Read())
	m.visible = bridge.WidgetVisible()

	m.cancels = append(m.cancels,
		bridge.Watch(func(s timer.State) {
			m.push(stateMsg(s))
		}),
		bridge.WatchVisibility(func(v bool) {
			m.push(visibilityMsg(v))
		}),
	)

	return m
}

func (m *Model) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// Close stops watching the shared state.
func (m *Model) Close() {
	for _, cancel := range m.cancels {
		cancel()
	}

	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Label returns what the widget currently shows.
func (m *Model) Label() Label {
	return m.label
}

// Visible reports whether the widget is shown.
func (m *Model) Visible() bool {
	return m.visible
}

func (m *Model) refresh(s timer.State) {
	m.state = s
	m.label = Render(s, m.now())
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.waitForEvent())
}

func (m *Model) poll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		m.refresh(m.bridge.Read())
		return m, m.poll()

	case stateMsg:
		m.refresh(timer.State(msg))
		return m, m.waitForEvent()

	case visibilityMsg:
		m.visible = bool(msg)
		return m, m.waitForEvent()

	case clearSentMsg:
		m.sent = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.pause):
		return m, m.send(timer.ActionPause)
	case key.Matches(msg, defaultKeymap.resume):
		return m, m.send(timer.ActionResume)
	case key.Matches(msg, defaultKeymap.skip):
		return m, m.send(timer.ActionComplete)
	case key.Matches(msg, defaultKeymap.hide):
		m.visible = !m.visible

		if err := m.bridge.SetWidgetVisible(m.visible); err != nil {
			slog.Warn("unable to store widget visibility", slog.Any("error", err))
		}

		return m, nil
	case key.Matches(msg, defaultKeymap.quit):
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) send(kind timer.ActionKind) tea.Cmd {
	if err := m.relay.Send(kind); err != nil {
		m.sent = "Failed"
		slog.Warn("unable to send pomodoro action", slog.Any("error", err))
	} else {
		m.sent = "Sent"
	}

	return tea.Tick(sentFeedback, func(time.Time) tea.Msg {
		return clearSentMsg{}
	})
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.visible {
		return hintStyle.Render("widget hidden (w to show, q to quit)")
	}

	if !m.label.Visible {
		return hintStyle.Render("Idle (q to quit)")
	}

	line := timeStyle.Render(m.label.Time) + " " + phaseStyle.Render(m.label.Phase)

	if m.label.Paused {
		line += hintStyle.Render(" [Paused]")
	}

	if m.sent != "" {
		line += hintStyle.Render(" " + m.sent)
	}

	return widgetStyle.Render(line) + "\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.pause,
		defaultKeymap.resume,
		defaultKeymap.skip,
		defaultKeymap.hide,
		defaultKeymap.quit,
	})
}
