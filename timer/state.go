// Package timer drives the pomodoro flow. The Engine owns the work/break
// state, the Bridge publishes it through shared storage for other focus
// processes and the Relay carries control actions back to the owning engine.
package timer

import (
	"time"

	"github.com/andromeda/focus/internal/timeutil"
)

// Phase is the current step of a pomodoro flow.
type Phase string

const (
	Idle  Phase = "idle"
	Work  Phase = "work"
	Break Phase = "break"
)

// Settings holds the lengths of each phase of a flow.
type Settings struct {
	WorkMinutes           int `json:"workMinutes"`
	ShortBreakMinutes     int `json:"shortBreak"`
	LongBreakMinutes      int `json:"longBreak"`
	CyclesBeforeLongBreak int `json:"cyclesBeforeLongBreak"`
}

// State is the pomodoro state shared between processes. The last writer wins.
type State struct {
	Phase          Phase    `json:"state"`
	Settings       Settings `json:"settings"`
	ExpectedEnd    int64    `json:"expectedEnd,omitempty"`
	TimerRemaining int      `json:"timerRemaining"`
	CurrentCycle   int      `json:"currentCycle"`
	SessionID      int64    `json:"sessionId,omitempty"`
	CategoryID     int64    `json:"categoryId,omitempty"`
	UpdatedAt      int64    `json:"updatedAt,omitempty"`
	Enabled        bool     `json:"enabled"`
	IsPaused       bool     `json:"isPaused"`
	LongBreak      bool     `json:"longBreak,omitempty"`
}

// IdleState is what readers see when no flow is active.
func IdleState() State {
	return State{Phase: Idle}
}

// Active reports whether a phase is counting down (or paused mid-phase).
func (s State) Active() bool {
	return s.Enabled && (s.Phase == Work || s.Phase == Break)
}

// Remaining returns the seconds left in the current phase at now. A paused
// phase reports its frozen value.
func (s State) Remaining(now time.Time) int {
	if s.IsPaused || s.ExpectedEnd == 0 {
		return max(0, s.TimerRemaining)
	}

	return max(0, timeutil.SecondsUntil(s.ExpectedEnd, now))
}

// EndTime is the wall clock time at which the current phase ends.
func (s State) EndTime() time.Time {
	return time.UnixMilli(s.ExpectedEnd)
}

// Label is a short human readable name for the current phase.
func (s State) Label() string {
	switch s.Phase {
	case Work:
		return "Work"
	case Break:
		if s.LongBreak {
			return "Long break"
		}

		return "Short break"
	default:
		return "Idle"
	}
}
