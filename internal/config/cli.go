package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andromeda/focus/internal/timeutil"
)

// CLIOptions represents command-line configuration options. Empty strings
// mean the flag was not provided.
type CLIOptions struct {
	Preset         string
	Work           string
	ShortBreak     string
	LongBreak      string
	Category       string
	APIURL         string
	Token          string
	SessionCmd     string
	Since          string
	Filter         string
	LogLevel       string
	Cycles         int
	Port           int
	DisableNotify  bool
	DisableBell    bool
	Headless       bool
	TwentyFourHour bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Preset:         ctx.String("preset"),
			Work:           ctx.String("work"),
			ShortBreak:     ctx.String("short-break"),
			LongBreak:      ctx.String("long-break"),
			Cycles:         ctx.Int("cycles"),
			Category:       ctx.String("category"),
			APIURL:         ctx.String("api-url"),
			Token:          ctx.String("token"),
			Port:           ctx.Int("port"),
			SessionCmd:     ctx.String("session-cmd"),
			Since:          ctx.String("since"),
			Filter:         ctx.String("filter"),
			LogLevel:       ctx.String("log-level"),
			DisableNotify:  ctx.Bool("disable-notification"),
			DisableBell:    ctx.Bool("disable-bell"),
			Headless:       ctx.Bool("headless"),
			TwentyFourHour: ctx.Bool("24hr"),
		}

		return applyCLIOptions(c, opts, time.Now())
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now time.Time) error {
	if opts.Preset != "" {
		c.Pomodoro.Preset = Preset(opts.Preset)
	}

	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	if opts.Category != "" {
		c.Pomodoro.Category = opts.Category
	}

	if opts.APIURL != "" {
		c.API.BaseURL = opts.APIURL
	}

	if opts.Token != "" {
		c.API.Token = opts.Token
		c.Server.Token = opts.Token
	}

	if opts.Port != 0 {
		c.Server.Port = opts.Port
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	if opts.LogLevel != "" {
		c.Log.Level = opts.LogLevel
	}

	if opts.DisableNotify {
		c.Settings.Notifications = false
	}

	if opts.DisableBell {
		c.Settings.Bell = false
	}

	if opts.TwentyFourHour {
		c.Settings.TwentyFourHour = true
	}

	c.CLI.Headless = opts.Headless
	c.CLI.Filter = opts.Filter

	if opts.Since != "" {
		since, err := timeutil.FromStr(opts.Since, now)
		if err != nil {
			return errInvalidSince.Fmt(opts.Since).Wrap(err)
		}

		c.CLI.Since = since
	}

	return nil
}

// applyCLIDurations applies phase lengths given on the command line. Any
// explicit length turns the flow into a custom preset seeded from the
// selected one.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	lengths := []struct {
		name  string
		value string
		dst   *int
	}{
		{"work", opts.Work, &c.Pomodoro.WorkMinutes},
		{"short break", opts.ShortBreak, &c.Pomodoro.ShortBreakMinutes},
		{"long break", opts.LongBreak, &c.Pomodoro.LongBreakMinutes},
	}

	custom := opts.Cycles > 0
	for _, l := range lengths {
		if l.value != "" {
			custom = true
		}
	}

	if !custom {
		return nil
	}

	c.applyPreset()
	c.Pomodoro.Preset = PresetCustom

	for _, l := range lengths {
		if l.value == "" {
			continue
		}

		mins, err := parseMinutes(l.value)
		if err != nil {
			return errInvalidDuration.Fmt(l.name, 0, maxPhaseMinutes).Wrap(err)
		}

		*l.dst = mins
	}

	if opts.Cycles > 0 {
		c.Pomodoro.CyclesBeforeLongBreak = opts.Cycles
	}

	return nil
}

// parseMinutes accepts a bare number of minutes or a duration string such
// as "25m" or "1h30m".
func parseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)

	if mins, err := strconv.Atoi(s); err == nil {
		return mins, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}

	return int(d / time.Minute), nil
}
