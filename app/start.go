package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/andromeda/focus/api"
	"github.com/andromeda/focus/internal/alert"
	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/internal/pathutil"
	"github.com/andromeda/focus/internal/static"
	"github.com/andromeda/focus/push"
	"github.com/andromeda/focus/report"
	"github.com/andromeda/focus/timer"
)

const tickInterval = time.Second

// ownerGrace is how recent a running state's last write must be for the
// flow to count as owned by another live process.
const ownerGrace = 2 * tickInterval

var errFlowOwned = &apperr.Error{
	Message: "a pomodoro is already running in another terminal: use 'focus widget' or 'focus action' to control it",
}

// ownedElsewhere reports whether s is being ticked by another process. A
// paused flow is never ticked, so it can always be adopted.
func ownedElsewhere(s timer.State, now time.Time) bool {
	if !s.Active() || s.IsPaused || s.UpdatedAt == 0 {
		return false
	}

	return now.Sub(time.UnixMilli(s.UpdatedAt)) < ownerGrace
}

// resolveCategory turns the --category value into an id. An empty value
// yields 0, which the engine rejects before starting anything.
func resolveCategory(
	ctx context.Context,
	client *api.Client,
	s string,
) (int64, error) {
	if s == "" {
		return 0, nil
	}

	categories, err := client.Categories(ctx)
	if err != nil {
		return 0, err
	}

	c, err := api.ResolveCategory(categories, s)
	if err != nil {
		return 0, err
	}

	return c.ID, nil
}

// startAction starts a new flow, or picks up the flow persisted by an
// earlier run, and drives it until it ends or the user quits.
func startAction(ctx *cli.Context) error {
	e, err := setup(ctx, !ctx.Bool("headless"))
	if err != nil {
		return err
	}

	defer e.Close()

	client, err := e.client()
	if err != nil {
		return err
	}

	area, err := e.area()
	if err != nil {
		return err
	}

	defer area.Close()

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	alerter := alert.New(alert.Config{
		Notifications: e.cfg.Settings.Notifications,
		Bell:          e.cfg.Settings.Bell,
		Cmd:           e.cfg.Settings.Cmd,
		Icon:          static.IconPath(pathutil.Dir()),
	}, e.logger)

	bridge := timer.NewBridge(area)
	relay := timer.NewRelay(area)

	if ownedElsewhere(bridge.Read(), time.Now()) {
		return errFlowOwned
	}

	engine := timer.NewEngine(
		client,
		bridge,
		e.cfg.TimerSettings(),
		timer.WithLogger(e.logger),
		timer.WithPhaseHook(alerter.PhaseEnded),
	)

	snap := engine.Restore()
	if snap.Enabled {
		report.Status(snap.Status)
	} else {
		if snap.Status == timer.StatusCompletedAway {
			report.Status(snap.Status)
		}

		categoryID, err := resolveCategory(sigCtx, client, e.cfg.Pomodoro.Category)
		if err != nil {
			return err
		}

		if err := engine.Start(sigCtx, categoryID); err != nil {
			return err
		}
	}

	cancelRelay := relay.Listen(func(a timer.Action) {
		if err := engine.HandleAction(sigCtx, a); err != nil {
			e.logger.Warn(
				"pomodoro action failed",
				slog.String("action", string(a.Action)),
				slog.Any("error", err),
			)
		}
	})
	defer cancelRelay()

	if e.cfg.CLI.Headless {
		err = runHeadless(sigCtx, engine)
	} else {
		err = runTUI(sigCtx, e, engine, relay, bridge, client)
	}

	alerter.Wait()

	if err != nil {
		return err
	}

	report.Status(engine.Snapshot().Status)

	return nil
}

// runHeadless ticks the engine without a user interface and prints every
// status change.
func runHeadless(ctx context.Context, engine *timer.Engine) error {
	last := engine.Snapshot().Status
	report.Status(last)

	cancel := engine.Subscribe(func(s timer.Snapshot) {
		if s.Status != last {
			last = s.Status
			report.Status(s.Status)
		}
	})
	defer cancel()

	err := engine.Run(ctx, tickInterval)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// runTUI runs the timer screen next to the push listener. The listener is
// stopped as soon as the screen exits.
func runTUI(
	ctx context.Context,
	e *env,
	engine *timer.Engine,
	relay *timer.Relay,
	bridge *timer.Bridge,
	client *api.Client,
) error {
	m := timer.NewModel(
		ctx,
		engine,
		relay,
		bridge,
		timer.WithStats(client),
		timer.WithStyle(timer.NewStyle(e.cfg.Settings.DarkTheme)),
		timer.WithTwentyFourHour(e.cfg.Settings.TwentyFourHour),
		timer.WithModelLogger(e.logger),
	)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))

	listener := push.NewListener(
		client.PushURL(),
		push.WithToken(client.Token()),
		push.WithLogger(e.logger),
	)

	g, gctx := errgroup.WithContext(ctx)
	listenCtx, stopListener := context.WithCancel(gctx)

	g.Go(func() error {
		defer stopListener()

		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		err := listener.Run(listenCtx, func(u models.SessionUpdate) {
			e.logger.Debug(
				"session update received",
				slog.String("event", u.Event),
				slog.Int64("session_id", u.SessionID),
			)

			go p.Send(timer.StatsRefreshMsg{})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("push listener stopped", slog.Any("error", err))
		}

		return nil
	})

	return g.Wait()
}
