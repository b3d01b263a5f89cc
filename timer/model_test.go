package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/models"
)

type StatsMock struct {
	stats *models.Stats
	err   error
	calls int
}

func (s *StatsMock) Stats(_ context.Context) (*models.Stats, error) {
	s.calls++
	return s.stats, s.err
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(
	t *testing.T,
	opts ...ModelOption,
) (*Model, *Engine, *APIMock, *fakeClock) {
	t.Helper()

	e, api, clock, hub := newTestEngine(t, testSettings)

	require.NoError(t, e.Start(context.Background(), 1))

	relayArea := hub.Area()
	t.Cleanup(func() {
		_ = relayArea.Close()
	})

	m := NewModel(context.Background(), e, NewRelay(relayArea), e.bridge, opts...)
	t.Cleanup(m.Close)

	return m, e, api, clock
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()

	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func TestModelTogglePause(t *testing.T) {
	m, e, api, _ := newTestModel(t)

	_, cmd := m.Update(runeKey('p'))
	assert.Nil(t, cmd)
	assert.True(t, e.Snapshot().IsPaused)
	assert.True(t, m.Snapshot().IsPaused)
	assert.Contains(t, m.View(), "[Paused]")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, e.Snapshot().IsPaused)

	assert.Equal(t, []string{"start", "pause", "resume"}, api.Calls())
}

func TestModelPauseDuringBreakShowsError(t *testing.T) {
	m, e, _, clock := newTestModel(t)

	finishPhase(t, e, clock)
	_, _ = m.Update(tickMsg{})
	require.Equal(t, Break, m.Snapshot().Phase)

	_, _ = m.Update(runeKey('p'))

	assert.ErrorIs(t, m.Err(), ErrBreakNotPausable)
	assert.Contains(t, m.View(), ErrBreakNotPausable.Error())
}

func TestModelTickAdvancesPhase(t *testing.T) {
	m, _, api, clock := newTestModel(t)

	clock.Advance(time.Minute)

	_, cmd := m.Update(tickMsg{})
	require.NotNil(t, cmd)

	snap := m.Snapshot()
	assert.Equal(t, Break, snap.Phase)
	assert.Equal(t, 1, snap.CurrentCycle)
	assert.Contains(t, api.Calls(), "complete")
	assert.Contains(t, m.View(), "Short break")
}

func TestModelView(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	view := m.View()

	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "01:00")
	assert.Contains(t, view, "(1/2)")
	assert.Contains(t, view, "Cycle 1 of 2")
}

func TestModelCompleteQuits(t *testing.T) {
	m, e, api, _ := newTestModel(t)

	_, _ = m.Update(runeKey('c'))

	assert.False(t, e.Snapshot().Enabled)
	assert.Equal(t, "Session completed", e.Snapshot().Status)
	assert.Contains(t, api.Calls(), "complete")

	// the engine publishes the idle state, which ends the program
	_, cmd := m.Update(snapshotMsg(e.Snapshot()))
	assert.True(t, isQuit(t, cmd))
	assert.Empty(t, m.View())
}

func TestModelStopAsksForReflection(t *testing.T) {
	m, e, api, _ := newTestModel(t)

	_, _ = m.Update(runeKey('s'))

	require.NotNil(t, m.form)
	assert.True(t, m.Snapshot().AwaitingReflection)
	assert.Contains(t, m.View(), "Session stopped")

	_, cmd := m.finalize("wrote the parser")
	assert.True(t, isQuit(t, cmd))

	assert.False(t, e.Snapshot().AwaitingReflection)
	assert.Equal(t, map[int64]string{1: "wrote the parser"}, api.completed)
}

func TestModelQuitKeepsFlow(t *testing.T) {
	m, e, _, _ := newTestModel(t)

	_, cmd := m.Update(runeKey('q'))

	assert.True(t, isQuit(t, cmd))
	assert.True(t, e.Snapshot().Enabled)
	assert.True(t, e.bridge.Read().Enabled)
}

func TestModelToggleWidget(t *testing.T) {
	m, e, _, _ := newTestModel(t)

	visible := e.bridge.WidgetVisible()

	_, _ = m.Update(runeKey('w'))
	assert.Equal(t, !visible, e.bridge.WidgetVisible())

	_, _ = m.Update(runeKey('w'))
	assert.Equal(t, visible, e.bridge.WidgetVisible())
}

func TestModelStats(t *testing.T) {
	src := &StatsMock{stats: &models.Stats{
		TodayMinutes:     50,
		TodaySessions:    2,
		WeekMinutes:      300,
		WeekSessions:     12,
		FavoriteCategory: "Study",
	}}

	m, _, _, _ := newTestModel(t, WithStats(src))

	_, cmd := m.Update(StatsRefreshMsg{})
	require.NotNil(t, cmd)

	_, _ = m.Update(cmd())

	assert.Equal(t, 1, src.calls)
	assert.Contains(t, m.View(), "Today: 50m in 2 sessions")
	assert.Contains(t, m.View(), "Favorite: Study")

	src.err = errors.New("offline")

	_, _ = m.Update(m.fetchStats()())
	assert.Contains(t, m.View(), "Favorite: Study", "stale stats are kept")
}

func TestModelWithoutStats(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	assert.Nil(t, m.fetchStats())
	assert.NotContains(t, m.View(), "Today:")
}
