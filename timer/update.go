package timer

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/davecgh/go-spew/spew"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tickMsg); !ok && m.logger.Enabled(m.ctx, slog.LevelDebug) {
		m.logger.Debug("timer message", slog.String("msg", spew.Sdump(msg)))
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snap = Snapshot(msg)

		if !m.snap.Enabled && !m.snap.AwaitingReflection {
			return m.quit()
		}

		return m, m.waitForSnapshot()

	case StatsRefreshMsg:
		return m, m.fetchStats()

	case statsMsg:
		if msg.err != nil {
			m.logger.Warn("unable to load stats", slog.Any("error", msg.err))
			return m, nil
		}

		m.latest = msg.stats

		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if err := m.engine.Tick(m.ctx); err != nil {
		m.err = err
	}

	m.snap = m.engine.Snapshot()

	if !m.snap.Enabled {
		return m.quit()
	}

	return m, m.tick()
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.togglePlay):
		kind := ActionPause
		if m.snap.IsPaused {
			kind = ActionResume
		}

		m.send(kind)

	case key.Matches(msg, defaultKeymap.complete):
		m.send(ActionComplete)

	case key.Matches(msg, defaultKeymap.stop):
		if !m.engine.Stop() {
			m.snap = m.engine.Snapshot()
			return m.quit()
		}

		m.snap = m.engine.Snapshot()
		m.form = newReflectionForm(&m.notes)

		return m, m.form.Init()

	case key.Matches(msg, defaultKeymap.widget):
		if err := m.bridge.SetWidgetVisible(!m.bridge.WidgetVisible()); err != nil {
			m.err = err
		}

	case key.Matches(msg, defaultKeymap.quit):
		return m.quit()
	}

	m.snap = m.engine.Snapshot()

	return m, nil
}

// send posts an action through the relay. The engine's answer is recorded
// in m.err by the local handler.
func (m *Model) send(kind ActionKind) {
	m.err = nil

	if err := m.relay.Send(kind); err != nil {
		m.logger.Warn("unable to send pomodoro action", slog.Any("error", err))
	}
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.finalize(m.notes)
	case huh.StateAborted:
		return m.finalize("")
	default:
		return m, cmd
	}
}

// finalize records the reflection of a stopped work session and leaves.
func (m *Model) finalize(notes string) (tea.Model, tea.Cmd) {
	m.form = nil

	if err := m.engine.Finalize(m.ctx, notes); err != nil {
		m.logger.Warn("unable to save reflection", slog.Any("error", err))
		m.err = err
	}

	m.snap = m.engine.Snapshot()

	return m.quit()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

// Err returns the last error reported by the engine.
func (m *Model) Err() error {
	return m.err
}

func newReflectionForm(notes *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What did you accomplish?").
				Description("Saved with the session. Leave empty to skip.").
				CharLimit(1000).
				Value(notes),
		),
	)
}
