package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/stats"
)

const (
	envNoColor      = "NO_COLOR"
	envFocusNoColor = "FOCUS_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// printJSON writes v to stdout as a single line of JSON.
func printJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}

// configAction prints the configuration focus would run with.
func configAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	b, err := e.cfg.Dump()
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Config file: %s", e.cfg.Path)
	fmt.Print(string(b))

	return nil
}

// statsAction prints today's and this week's totals reported by the session
// API together with a daily chart of the past week.
func statsAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	client, err := e.client()
	if err != nil {
		return err
	}

	s, err := client.Stats(ctx.Context)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(s)
	}

	sessions, err := client.Sessions(ctx.Context, models.FilterWeek)
	if err != nil {
		e.logger.Warn("unable to fetch sessions for the chart", slog.Any("error", err))
	}

	stats.Show(os.Stdout, *s, sessions, time.Now())

	return nil
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if FOCUS_NO_COLOR is set
	if _, exists := os.LookupEnv(envFocusNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting focus")

	return nil
}
