// Package alert tells the user that a pomodoro phase has ended.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/timer"
)

const cmdTimeout = 30 * time.Second

var errSessionCmd = &apperr.Error{
	Message: "unable to parse session_cmd option",
}

// Config selects which alerts fire at the end of a phase.
type Config struct {
	Cmd           string
	Icon          string
	Notifications bool
	Bell          bool
}

// Alerter runs the configured alerts. Each phase end is handled in its own
// goroutine so a slow command never holds up the timer.
type Alerter struct {
	logger *slog.Logger
	notify func(title, msg, icon string) error
	ring   func() error
	run    func(ctx context.Context, argv []string) error
	cfg    Config
	wg     sync.WaitGroup
}

// New returns an Alerter that notifies through the desktop notification
// service and plays the bell on the default audio device.
func New(cfg Config, logger *slog.Logger) *Alerter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Alerter{
		cfg:    cfg,
		logger: logger,
		notify: beeep.Notify,
		ring:   Ring,
		run:    runCommand,
	}
}

// Message returns the notification title and body for a phase change.
func Message(ended, next timer.State) (title, msg string) {
	switch {
	case next.Phase == timer.Break && next.LongBreak:
		return "Work session complete",
			fmt.Sprintf("Take a long break: %d minutes", next.Settings.LongBreakMinutes)
	case next.Phase == timer.Break:
		return "Work session complete",
			fmt.Sprintf("Take a short break: %d minutes", next.Settings.ShortBreakMinutes)
	case ended.Phase == timer.Break:
		return "Break over",
			fmt.Sprintf("Back to work: cycle %d of %d",
				next.CurrentCycle+1, next.Settings.CyclesBeforeLongBreak)
	default:
		return "Work session complete", "Starting the next cycle"
	}
}

// PhaseEnded is a timer.PhaseHook.
func (a *Alerter) PhaseEnded(ended, next timer.State) {
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()

		a.fire(ended, next)
	}()
}

func (a *Alerter) fire(ended, next timer.State) {
	if a.cfg.Notifications {
		title, msg := Message(ended, next)

		if err := a.notify(title, msg, a.cfg.Icon); err != nil {
			a.logger.Warn("unable to display notification", slog.Any("error", err))
		}
	}

	if a.cfg.Bell {
		if err := a.ring(); err != nil {
			a.logger.Warn("unable to play bell", slog.Any("error", err))
		}
	}

	if a.cfg.Cmd == "" {
		return
	}

	argv, err := ParseCmd(a.cfg.Cmd)
	if err != nil {
		a.logger.Warn("session command skipped", slog.Any("error", err))
		return
	}

	if len(argv) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	if err := a.run(ctx, argv); err != nil {
		a.logger.Warn(
			"session command failed",
			slog.String("cmd", a.cfg.Cmd),
			slog.Any("error", err),
		)
	}
}

// Wait blocks until every pending alert has finished.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

// ParseCmd splits a session_cmd value into its program and arguments using
// shell quoting rules.
func ParseCmd(s string) ([]string, error) {
	argv, err := shellquote.Split(s)
	if err != nil {
		return nil, errSessionCmd.Wrap(err)
	}

	return argv, nil
}

func runCommand(ctx context.Context, argv []string) error {
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
}
