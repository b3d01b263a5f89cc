package timer

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/andromeda/focus/internal/storage"
)

// ActionKind is a control request sent to the owning engine.
type ActionKind string

const (
	ActionPause    ActionKind = "pause"
	ActionResume   ActionKind = "resume"
	ActionComplete ActionKind = "complete"
)

// ParseActionKind validates a user supplied action name.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionPause, ActionResume, ActionComplete:
		return k, nil
	default:
		return "", errUnknownAction.Fmt(s)
	}
}

// Action is a one-shot message. The receiver deletes it once read.
type Action struct {
	Action    ActionKind `json:"action"`
	Timestamp int64      `json:"timestamp"`
}

// Relay is a single-slot mailbox for actions. Only the most recent action
// survives until it is consumed.
type Relay struct {
	area  storage.Area
	local func(Action)
	now   func() time.Time
	mu    sync.Mutex
}

// NewRelay returns a relay over area.
func NewRelay(area storage.Area) *Relay {
	return &Relay{
		area: area,
		now:  time.Now,
	}
}

// RegisterLocal installs the handler of a receiver living in the same
// process as the sender. Storage events never reach their writer, so Send
// hands actions to this handler directly.
func (r *Relay) RegisterLocal(fn func(Action)) {
	r.mu.Lock()
	r.local = fn
	r.mu.Unlock()
}

// Send posts an action to the mailbox.
func (r *Relay) Send(kind ActionKind) error {
	a := Action{
		Action:    kind,
		Timestamp: r.now().UnixMilli(),
	}

	b, err := json.Marshal(a)
	if err != nil {
		return err
	}

	err = r.area.Set(ActionKey, string(b))
	if err != nil {
		return err
	}

	r.mu.Lock()
	local := r.local
	r.mu.Unlock()

	if local == nil {
		return nil
	}

	// delivered in-process, so no other receiver should act on it
	err = r.area.Remove(ActionKey)

	local(a)

	return err
}

// Consume reads and deletes the pending action, if any. A second call sees
// nothing until a new action is sent.
func (r *Relay) Consume() (Action, bool) {
	v, ok, err := r.area.Get(ActionKey)
	if err != nil || !ok {
		return Action{}, false
	}

	err = r.area.Remove(ActionKey)
	if err != nil {
		slog.Warn("unable to clear pomodoro action", slog.Any("error", err))
	}

	return decodeAction(v)
}

func decodeAction(v string) (Action, bool) {
	var a Action

	err := json.Unmarshal([]byte(v), &a)
	if err != nil || a.Action == "" {
		slog.Debug("ignoring malformed pomodoro action", slog.String("value", v))
		return Action{}, false
	}

	return a, true
}

// Listen delivers actions to fn: first any action left pending before the
// receiver existed, then every action posted by another process.
func (r *Relay) Listen(fn func(Action)) (cancel func()) {
	cancel = r.area.Subscribe(func(e storage.Event) {
		if e.Key != ActionKey || e.Removed {
			return
		}

		if a, ok := r.Consume(); ok {
			fn(a)
		}
	})

	if a, ok := r.Consume(); ok {
		fn(a)
	}

	return cancel
}
