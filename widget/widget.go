// Package widget is the compact status display of a flow owned by another
// focus process. It only reads the shared state and sends control actions
// through the relay; it never talks to the session API.
package widget

import (
	"fmt"
	"time"

	"github.com/andromeda/focus/timer"
)

// PollInterval is how often the widget re-reads the shared state.
const PollInterval = 800 * time.Millisecond

// Label is what the widget shows for a state.
type Label struct {
	Time    string
	Phase   string
	Visible bool
	Paused  bool
}

// Render computes the label for s at now. Inactive or finished phases are
// hidden.
func Render(s timer.State, now time.Time) Label {
	if !s.Active() {
		return Label{Phase: "Idle"}
	}

	remaining := s.Remaining(now)
	if remaining <= 0 {
		return Label{Phase: "Idle"}
	}

	return Label{
		Visible: true,
		Time:    timer.FormatTimeSeconds(remaining),
		Phase:   s.Label(),
		Paused:  s.IsPaused,
	}
}

// Line is the one line summary printed by the status command, e.g.
// "Work [2/4] 12:34" or "Short break 03:10 (paused)".
func Line(s timer.State, now time.Time) string {
	l := Render(s, now)
	if !l.Visible {
		return l.Phase
	}

	line := l.Phase + " " + l.Time

	if s.Phase == timer.Work {
		line = fmt.Sprintf(
			"%s [%d/%d] %s",
			l.Phase,
			s.CurrentCycle+1,
			s.Settings.CyclesBeforeLongBreak,
			l.Time,
		)
	}

	if l.Paused {
		line += " (paused)"
	}

	return line
}
