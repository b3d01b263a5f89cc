package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/andromeda/focus/internal/models"
)

const (
	padding  = 2
	maxWidth = 80
)

// StatsSource provides the summary shown below the countdown.
type StatsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

type (
	tickMsg     time.Time
	snapshotMsg Snapshot
	statsMsg    struct {
		stats *models.Stats
		err   error
	}

	// StatsRefreshMsg asks the timer screen to reload its stats. Deliver it
	// with tea.Program.Send when the server reports a session change.
	StatsRefreshMsg struct{}
)

// Model is the terminal user interface of a running flow. It drives the
// engine with ticks and key presses and renders its snapshots.
type Model struct {
	ctx      context.Context
	engine   *Engine
	relay    *Relay
	bridge   *Bridge
	stats    StatsSource
	logger   *slog.Logger
	form     *huh.Form
	latest   *models.Stats
	err      error
	updates  chan Snapshot
	done     chan struct{}
	cancel   func()
	notes    string
	timeFmt  string
	snap     Snapshot
	style    Style
	help     help.Model
	progress progress.Model
	interval time.Duration
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithStats shows the server stats below the countdown.
func WithStats(src StatsSource) ModelOption {
	return func(m *Model) {
		m.stats = src
	}
}

// WithStyle replaces the default dark styles.
func WithStyle(s Style) ModelOption {
	return func(m *Model) {
		m.style = s
	}
}

// WithTwentyFourHour shows end times on a 24 hour clock.
func WithTwentyFourHour(on bool) ModelOption {
	return func(m *Model) {
		if on {
			m.timeFmt = "15:04:05"
		}
	}
}

// WithModelLogger sets the logger used for debug dumps of messages.
func WithModelLogger(l *slog.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTickInterval changes how often the countdown is refreshed.
func WithTickInterval(d time.Duration) ModelOption {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// NewModel returns the timer screen for engine. Pause, resume and complete
// requests go through relay so that they take the same path as requests
// from other processes.
func NewModel(
	ctx context.Context,
	engine *Engine,
	relay *Relay,
	bridge *Bridge,
	opts ...ModelOption,
) *Model {
	m := &Model{
		ctx:      ctx,
		engine:   engine,
		relay:    relay,
		bridge:   bridge,
		logger:   slog.Default(),
		updates:  make(chan Snapshot, 16),
		done:     make(chan struct{}),
		timeFmt:  "03:04:05 PM",
		style:    NewStyle(true),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		interval: time.Second,
		snap:     engine.Snapshot(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.cancel = engine.Subscribe(func(s Snapshot) {
		select {
		case m.updates <- s:
		default:
		}
	})

	// Send invokes this on the goroutine running Update.
	relay.RegisterLocal(func(a Action) {
		m.err = engine.HandleAction(m.ctx, a)
	})

	return m
}

// Close detaches the model from the engine.
func (m *Model) Close() {
	m.cancel()
	m.relay.RegisterLocal(nil)

	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Snapshot returns the last engine state the model rendered.
func (m *Model) Snapshot() Snapshot {
	return m.snap
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForSnapshot(), m.fetchStats())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return snapshotMsg(s)
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) fetchStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}

	return func() tea.Msg {
		s, err := m.stats.Stats(m.ctx)
		return statsMsg{stats: s, err: err}
	}
}
