package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// phaseSeconds is the full length of the current phase.
func phaseSeconds(s State) int {
	switch {
	case s.Phase == Work:
		return s.Settings.WorkMinutes * 60
	case s.LongBreak:
		return s.Settings.LongBreakMinutes * 60
	default:
		return s.Settings.ShortBreakMinutes * 60
	}
}

func (m *Model) timerView() string {
	var s strings.Builder

	s.WriteString(m.style.Phase(m.snap.State).Render())

	if m.snap.IsPaused {
		s.WriteString(m.style.Secondary.Render("[Paused]"))
	} else {
		s.WriteString(
			m.style.Hint.Render("until " + m.snap.EndTime().Format(m.timeFmt)),
		)
	}

	if m.snap.Phase == Work {
		s.WriteString(m.style.Hint.Render(fmt.Sprintf(
			" (%d/%d)",
			m.snap.CurrentCycle+1,
			m.snap.Settings.CyclesBeforeLongBreak,
		)))
	}

	var percent float64
	if total := phaseSeconds(m.snap.State); total > 0 {
		percent = float64(m.snap.Remaining) / float64(total)
	}

	s.WriteString("\n\n")
	s.WriteString(m.style.Main.Render(FormatTimeSeconds(m.snap.Remaining)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(1 - percent))
	s.WriteString("\n\n")
	s.WriteString(m.style.Secondary.Render(m.snap.Status))

	if m.err != nil {
		s.WriteString("\n" + m.style.Error.Render(m.err.Error()))
	}

	if m.latest != nil {
		s.WriteString("\n\n" + m.statsView())
	}

	s.WriteString(m.sessionHelpView())

	return s.String()
}

func (m *Model) statsView() string {
	return m.style.Hint.Render(fmt.Sprintf(
		"Today: %dm in %d sessions | Week: %dm in %d sessions | Favorite: %s",
		m.latest.TodayMinutes,
		m.latest.TodaySessions,
		m.latest.WeekMinutes,
		m.latest.WeekSessions,
		m.latest.FavoriteCategory,
	))
}

func (m *Model) sessionHelpView() string {
	if m.snap.Phase == Work {
		return "\n\n" + m.help.ShortHelpView([]key.Binding{
			defaultKeymap.togglePlay,
			defaultKeymap.complete,
			defaultKeymap.stop,
			defaultKeymap.widget,
			defaultKeymap.quit,
		})
	}

	return "\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.complete,
		defaultKeymap.stop,
		defaultKeymap.widget,
		defaultKeymap.quit,
	})
}

func (m *Model) reflectionView() string {
	var s strings.Builder

	s.WriteString(m.style.Main.Render("Session stopped"))
	s.WriteString("\n\n")
	s.WriteString(m.form.View())

	return s.String()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.form != nil {
		return m.style.Base.Render(m.reflectionView())
	}

	return m.style.Base.Render(m.timerView())
}
