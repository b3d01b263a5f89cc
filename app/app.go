// Package app wires the focus command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the focus app instance.
func Get() *cli.App {
	focusApp := &cli.App{
		Name: "focus",
		Usage: `
		Focus is a pomodoro timer for the command-line. A flow alternates work
		sessions and breaks, records each work session with a session API and
		can be watched and controlled from any other terminal.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start a pomodoro flow, or resume the one left running",
				Flags:  timerFlags,
				Action: startAction,
			},
			{
				Name:   "widget",
				Usage:  "Show a compact live view of the running flow",
				Action: widgetAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the running flow",
				Action: statusAction,
			},
			{
				Name:      "action",
				Usage:     "Ask the process running the flow to pause, resume or complete",
				ArgsUsage: "<pause|resume|complete>",
				Action:    actionAction,
			},
			{
				Name:      "visibility",
				Usage:     "Show or hide the widget in every terminal",
				ArgsUsage: "[on|off|toggle]",
				Action:    visibilityAction,
			},
			{
				Name:   "categories",
				Usage:  "List the categories known to the session API",
				Flags:  []cli.Flag{apiURLFlag, tokenFlag, jsonFlag},
				Action: categoriesAction,
			},
			{
				Name:   "sessions",
				Usage:  "List recorded work sessions",
				Flags:  []cli.Flag{apiURLFlag, tokenFlag, filterFlag, sinceFlag, jsonFlag},
				Action: sessionsAction,
			},
			{
				Name:   "stats",
				Usage:  "Summarise today's and this week's work sessions",
				Flags:  []cli.Flag{apiURLFlag, tokenFlag, jsonFlag},
				Action: statsAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the session API server",
				Flags:  []cli.Flag{portFlag, tokenFlag, logLevelFlag},
				Action: serveAction,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration",
				Action: configAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  append([]cli.Flag{noColorFlag}, timerFlags...),
		Action: startAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return focusApp
}
