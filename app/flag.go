package app

import "github.com/urfave/cli/v2"

var (
	presetFlag = &cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Usage:   "Phase lengths to use: classic (25/5/15), short (15/3/10), long (50/10/30) or custom",
	}

	workFlag = &cli.StringFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work duration in minutes (default: 25)",
	}

	shortBreakFlag = &cli.StringFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration in minutes, 0 skips the break (default: 5)",
	}

	longBreakFlag = &cli.StringFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration in minutes, 0 skips the break (default: 15)",
	}

	cyclesFlag = &cli.IntFlag{
		Name:    "cycles",
		Aliases: []string{"int"},
		Usage:   "The number of work sessions before a long break (default: 4)",
	}

	categoryFlag = &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"c"},
		Usage:   "Category to record the work sessions under, by id or name",
	}

	apiURLFlag = &cli.StringFlag{
		Name:    "api-url",
		Usage:   "Base address of the session API",
		EnvVars: []string{"FOCUS_API_URL"},
	}

	tokenFlag = &cli.StringFlag{
		Name:    "token",
		Usage:   "Bearer token for the session API",
		EnvVars: []string{"FOCUS_TOKEN"},
	}

	headlessFlag = &cli.BoolFlag{
		Name:  "headless",
		Usage: "Run the timer without the terminal interface",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a phase ends",
	}

	disableBellFlag = &cli.BoolFlag{
		Name:  "disable-bell",
		Usage: "Do not ring the bell when a phase ends",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each phase",
	}

	twentyFourHourFlag = &cli.BoolFlag{
		Name:  "24hr",
		Usage: "Show end times on a 24 hour clock",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	filterFlag = &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "Time window of the listing: today, week, month or all",
		Value:   "today",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only show sessions started after this time (e.g. '3 days ago')",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port for the session API server (default: 8765)",
	}
)

var timerFlags = []cli.Flag{
	presetFlag,
	workFlag,
	shortBreakFlag,
	longBreakFlag,
	cyclesFlag,
	categoryFlag,
	apiURLFlag,
	tokenFlag,
	headlessFlag,
	disableNotificationFlag,
	disableBellFlag,
	sessionCmdFlag,
	twentyFourHourFlag,
	logLevelFlag,
}
