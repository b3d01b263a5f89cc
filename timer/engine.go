package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andromeda/focus/internal/apperr"
)

// StatusCompletedAway is reported by Restore when the persisted phase ended
// while no process was running it.
const StatusCompletedAway = "Timer completed while away"

var (
	ErrAlreadyRunning = &apperr.Error{
		Message: "a pomodoro is already running",
	}

	errCompleteSession = &apperr.Error{
		Message: "unable to complete session %d",
	}
)

// SessionAPI records work sessions on the server. The engine treats every
// call as a black box that either succeeds or fails.
type SessionAPI interface {
	StartSession(ctx context.Context, categoryID int64) (int64, error)
	PauseSession(ctx context.Context, id int64) error
	ResumeSession(ctx context.Context, id int64) error
	CompleteSession(ctx context.Context, id int64, notes string) error
}

// PhaseHook is called after a phase runs to completion.
type PhaseHook func(ended, next State)

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Status string
	State
	Remaining int
	// AwaitingReflection is set after a manual stop until Finalize is called.
	AwaitingReflection bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for all countdown math.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger for engine diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPhaseHook registers h to run whenever a phase ends on its own.
func WithPhaseHook(h PhaseHook) Option {
	return func(e *Engine) {
		e.hook = h
	}
}

type transition struct {
	ended State
	next  State
}

// Engine drives a pomodoro flow. It is the only writer of the shared state;
// all methods are serialized, so the engine behaves like a single event loop
// fed by ticks, user input and relayed actions.
type Engine struct {
	api            SessionAPI
	bridge         *Bridge
	now            func() time.Time
	logger         *slog.Logger
	hook           PhaseHook
	observers      map[int]func(Snapshot)
	status         string
	transitions    []transition
	state          State
	settings       Settings
	pendingSession int64
	nextObserver   int
	mu             sync.Mutex
	obsMu          sync.Mutex
}

// NewEngine returns an idle engine.
func NewEngine(
	api SessionAPI,
	bridge *Bridge,
	settings Settings,
	opts ...Option,
) *Engine {
	e := &Engine{
		api:       api,
		bridge:    bridge,
		settings:  settings,
		now:       time.Now,
		logger:    slog.Default(),
		observers: make(map[int]func(Snapshot)),
		state:     State{Phase: Idle, Settings: settings},
		status:    "Pomodoro ready",
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// do runs fn with the engine locked, then notifies observers and phase hooks
// outside the lock.
func (e *Engine) do(fn func() error) error {
	e.mu.Lock()
	err := fn()
	snap := e.snapshotLocked()
	transitions := e.transitions
	e.transitions = nil
	e.mu.Unlock()

	if e.hook != nil {
		for _, t := range transitions {
			e.hook(t.ended, t.next)
		}
	}

	e.publish(snap)

	return err
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:              e.state,
		Status:             e.status,
		Remaining:          e.state.Remaining(e.now()),
		AwaitingReflection: e.pendingSession != 0,
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change made by
// this engine.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.obsMu.Lock()
	e.nextObserver++
	id := e.nextObserver
	e.observers[id] = fn
	e.obsMu.Unlock()

	return func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

func (e *Engine) publish(s Snapshot) {
	e.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.observers))

	for _, fn := range e.observers {
		fns = append(fns, fn)
	}
	e.obsMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// SetSettings changes the phase lengths used by the next flow.
func (e *Engine) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings = s

	if !e.state.Active() {
		e.state.Settings = s
	}
}

func (e *Engine) persistLocked() {
	e.state.UpdatedAt = e.now().UnixMilli()

	err := e.bridge.Write(e.state)
	if err != nil {
		e.logger.Error("persisting pomodoro state failed", slog.Any("error", err))
	}
}

func (e *Engine) workStatus() string {
	return fmt.Sprintf(
		"Work — Cycle %d of %d",
		e.state.CurrentCycle+1,
		e.state.Settings.CyclesBeforeLongBreak,
	)
}

// Start begins a new flow for categoryID with the current settings.
func (e *Engine) Start(ctx context.Context, categoryID int64) error {
	return e.do(func() error {
		if categoryID == 0 {
			e.status = "Pomodoro aborted: no category"
			return ErrNoCategory
		}

		if e.state.Active() {
			return ErrAlreadyRunning
		}

		e.pendingSession = 0
		e.state = State{
			Enabled:    true,
			Phase:      Idle,
			Settings:   e.settings,
			CategoryID: categoryID,
		}

		return e.startWorkLocked(ctx)
	})
}

func (e *Engine) startWorkLocked(ctx context.Context) error {
	e.status = e.workStatus()

	id, err := e.api.StartSession(ctx, e.state.CategoryID)
	if err != nil {
		e.logger.Error(
			"starting work session failed",
			slog.Int64("category_id", e.state.CategoryID),
			slog.Any("error", err),
		)

		e.state.Enabled = false
		e.state.Phase = Idle
		e.state.SessionID = 0
		e.state.ExpectedEnd = 0
		e.state.TimerRemaining = 0
		e.state.IsPaused = false
		e.status = "Pomodoro error: cannot start session"
		e.persistLocked()

		return ErrStartSession.Wrap(err)
	}

	now := e.now()
	d := time.Duration(e.state.Settings.WorkMinutes) * time.Minute

	e.state.SessionID = id
	e.state.Phase = Work
	e.state.LongBreak = false
	e.state.IsPaused = false
	e.state.ExpectedEnd = now.Add(d).UnixMilli()
	e.state.TimerRemaining = e.state.Remaining(now)
	e.persistLocked()

	return nil
}

// startBreakLocked begins a break of the given length. Zero-length breaks are
// elided and the next work phase starts immediately.
func (e *Engine) startBreakLocked(ctx context.Context, minutes int, long bool) error {
	if minutes <= 0 {
		if e.state.Enabled {
			return e.startWorkLocked(ctx)
		}

		return nil
	}

	now := e.now()
	d := time.Duration(minutes) * time.Minute

	e.state.Phase = Break
	e.state.LongBreak = long
	e.state.IsPaused = false
	e.state.ExpectedEnd = now.Add(d).UnixMilli()
	e.state.TimerRemaining = e.state.Remaining(now)

	kind := "Short"
	if long {
		kind = "Long"
	}

	e.status = fmt.Sprintf("%s break — %d min", kind, minutes)
	e.persistLocked()

	return nil
}

func (e *Engine) completeSessionLocked(ctx context.Context, id int64, notes string) error {
	if id == 0 {
		return nil
	}

	err := e.api.CompleteSession(ctx, id, notes)
	if err != nil {
		e.logger.Warn(
			"completing session failed",
			slog.Int64("session_id", id),
			slog.Any("error", err),
		)

		return errCompleteSession.Fmt(id).Wrap(err)
	}

	return nil
}

// Tick recomputes the remaining time from the phase end timestamp and moves
// to the next phase once it reaches zero. It does nothing while paused or
// idle.
func (e *Engine) Tick(ctx context.Context) error {
	return e.do(func() error {
		if !e.state.Active() || e.state.IsPaused {
			return nil
		}

		e.state.TimerRemaining = e.state.Remaining(e.now())
		e.persistLocked()

		if e.state.TimerRemaining > 0 {
			return nil
		}

		return e.advanceLocked(ctx)
	})
}

func (e *Engine) advanceLocked(ctx context.Context) error {
	ended := e.state

	var err error

	switch e.state.Phase {
	case Work:
		// a failed completion must not stall the visible timer
		_ = e.completeSessionLocked(ctx, e.state.SessionID, "")

		e.state.SessionID = 0
		e.state.CurrentCycle++

		minutes := e.state.Settings.ShortBreakMinutes

		long := e.state.CurrentCycle >= e.state.Settings.CyclesBeforeLongBreak
		if long {
			minutes = e.state.Settings.LongBreakMinutes
			e.state.CurrentCycle = 0
		}

		err = e.startBreakLocked(ctx, minutes, long)
	case Break:
		if e.state.Enabled {
			err = e.startWorkLocked(ctx)
		}
	case Idle:
		return nil
	}

	e.transitions = append(e.transitions, transition{ended: ended, next: e.state})

	return err
}

// Pause freezes the remaining time of a work phase. Breaks cannot be paused.
func (e *Engine) Pause(ctx context.Context) error {
	return e.do(func() error {
		if !e.state.Active() {
			return ErrNotRunning
		}

		if e.state.Phase == Break {
			return ErrBreakNotPausable
		}

		if e.state.IsPaused {
			return nil
		}

		e.state.TimerRemaining = e.state.Remaining(e.now())
		e.state.IsPaused = true
		e.status = "Paused"
		e.persistLocked()

		if e.state.SessionID != 0 {
			err := e.api.PauseSession(ctx, e.state.SessionID)
			if err != nil {
				e.logger.Warn(
					"pausing session failed",
					slog.Int64("session_id", e.state.SessionID),
					slog.Any("error", err),
				)
			}
		}

		return nil
	})
}

// Resume continues a paused phase from its frozen remaining time.
func (e *Engine) Resume(ctx context.Context) error {
	return e.do(func() error {
		if !e.state.Active() {
			return ErrNotRunning
		}

		if !e.state.IsPaused {
			return nil
		}

		now := e.now()

		e.state.ExpectedEnd = now.Add(
			time.Duration(e.state.TimerRemaining) * time.Second,
		).UnixMilli()
		e.state.IsPaused = false
		e.status = e.workStatus()
		e.persistLocked()

		if e.state.Phase == Work && e.state.SessionID != 0 {
			err := e.api.ResumeSession(ctx, e.state.SessionID)
			if err != nil {
				e.logger.Warn(
					"resuming session failed",
					slog.Int64("session_id", e.state.SessionID),
					slog.Any("error", err),
				)
			}
		}

		return nil
	})
}

func (e *Engine) resetLocked(status string) {
	e.state = State{
		Phase:      Idle,
		Settings:   e.state.Settings,
		CategoryID: e.state.CategoryID,
	}
	e.status = status
	e.persistLocked()
}

// Stop ends the flow. If a work session was in progress it is kept open until
// Finalize supplies the reflection notes. The return value reports whether a
// reflection is expected.
func (e *Engine) Stop() bool {
	var awaiting bool

	_ = e.do(func() error {
		if e.state.Phase == Work && e.state.SessionID != 0 {
			e.pendingSession = e.state.SessionID
		}

		e.resetLocked("Pomodoro stopped")

		awaiting = e.pendingSession != 0

		return nil
	})

	return awaiting
}

// Finalize completes the session left open by Stop with the user's notes.
// Empty notes skip the reflection. Local state is already idle, so a failed
// call only reports the error.
func (e *Engine) Finalize(ctx context.Context, notes string) error {
	return e.do(func() error {
		id := e.pendingSession
		e.pendingSession = 0

		return e.completeSessionLocked(ctx, id, notes)
	})
}

// Complete handles a remote completion request. During work it closes the
// session without notes and ends the flow; during a break it skips the rest
// of the break.
func (e *Engine) Complete(ctx context.Context) error {
	return e.do(func() error {
		if !e.state.Active() {
			return ErrNotRunning
		}

		if e.state.Phase == Break {
			ended := e.state

			err := e.startWorkLocked(ctx)

			e.transitions = append(e.transitions, transition{ended: ended, next: e.state})

			return err
		}

		id := e.state.SessionID

		e.resetLocked("Session completed")

		return e.completeSessionLocked(ctx, id, "")
	})
}

// HandleAction dispatches a relayed action.
func (e *Engine) HandleAction(ctx context.Context, a Action) error {
	e.logger.Info("received external pomodoro action", slog.String("action", string(a.Action)))

	switch a.Action {
	case ActionPause:
		return e.Pause(ctx)
	case ActionResume:
		return e.Resume(ctx)
	case ActionComplete:
		return e.Complete(ctx)
	default:
		return errUnknownAction.Fmt(string(a.Action))
	}
}

// Restore adopts the state persisted by a previous run. A running phase whose
// end has already passed is reset to idle instead of counting below zero.
func (e *Engine) Restore() Snapshot {
	stored := e.bridge.Read()

	_ = e.do(func() error {
		if stored.Settings.WorkMinutes <= 0 {
			stored.Settings = e.settings
		}

		if !stored.Active() {
			e.state = State{
				Phase:      Idle,
				Settings:   e.settings,
				CategoryID: stored.CategoryID,
			}

			return nil
		}

		now := e.now()

		if !stored.IsPaused && now.UnixMilli() >= stored.ExpectedEnd {
			// The server session stays ongoing; the next StartSession closes it.
			e.state = State{
				Phase:      Idle,
				Settings:   stored.Settings,
				CategoryID: stored.CategoryID,
			}
			e.status = StatusCompletedAway
			e.persistLocked()

			return nil
		}

		e.state = stored
		e.state.TimerRemaining = stored.Remaining(now)
		e.status = "Pomodoro resumed"
		e.persistLocked()

		return nil
	})

	return e.Snapshot()
}

// Run ticks the engine every interval until ctx is cancelled or the flow is
// no longer enabled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := e.Tick(ctx)
			if err != nil {
				e.logger.Warn("pomodoro tick failed", slog.Any("error", err))
			}

			if !e.Snapshot().Enabled {
				return nil
			}
		}
	}
}
