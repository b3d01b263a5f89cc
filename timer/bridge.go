package timer

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/andromeda/focus/internal/storage"
)

// Storage keys shared by every focus process.
const (
	StateKey      = "andromeda_pomodoro"
	ActionKey     = "andromeda_pomodoro_action"
	VisibilityKey = "andromeda_chase_visible"
)

// Bridge persists the pomodoro state in a storage area so that other
// processes can display it without talking to the owning engine.
type Bridge struct {
	area storage.Area
}

// NewBridge returns a bridge over area.
func NewBridge(area storage.Area) *Bridge {
	return &Bridge{area: area}
}

// Write stores s under the state key.
func (b *Bridge) Write(s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return b.area.Set(StateKey, string(data))
}

// Read returns the stored state. A missing or unreadable entry is reported as
// the idle state.
func (b *Bridge) Read() State {
	v, ok, err := b.area.Get(StateKey)
	if err != nil {
		slog.Debug("reading pomodoro state failed", slog.Any("error", err))
		return IdleState()
	}

	if !ok {
		return IdleState()
	}

	return decodeState(v)
}

func decodeState(v string) State {
	var s State

	err := json.Unmarshal([]byte(v), &s)
	if err != nil {
		slog.Debug("ignoring malformed pomodoro state", slog.Any("error", err))
		return IdleState()
	}

	if s.Phase == "" {
		s.Phase = Idle
	}

	if s.TimerRemaining < 0 {
		s.TimerRemaining = 0
	}

	return s
}

// Clear removes the stored state.
func (b *Bridge) Clear() error {
	return b.area.Remove(StateKey)
}

// Watch calls fn whenever another process changes the stored state. The
// writing process is never notified of its own writes, so observers in the
// same process must subscribe to the engine instead.
func (b *Bridge) Watch(fn func(State)) (cancel func()) {
	return b.area.Subscribe(func(e storage.Event) {
		if e.Key != StateKey {
			return
		}

		if e.Removed {
			fn(IdleState())
			return
		}

		fn(decodeState(e.Value))
	})
}

// WidgetVisible reports whether the status widget should render. Anything
// other than an explicit "false" counts as visible.
func (b *Bridge) WidgetVisible() bool {
	v, ok, err := b.area.Get(VisibilityKey)
	if err != nil || !ok {
		return true
	}

	return v != "false"
}

// SetWidgetVisible stores the widget visibility flag.
func (b *Bridge) SetWidgetVisible(visible bool) error {
	return b.area.Set(VisibilityKey, strconv.FormatBool(visible))
}

// WatchVisibility calls fn when another process toggles the widget.
func (b *Bridge) WatchVisibility(fn func(bool)) (cancel func()) {
	return b.area.Subscribe(func(e storage.Event) {
		if e.Key != VisibilityKey {
			return
		}

		fn(e.Removed || e.Value != "false")
	})
}
