package config

import (
	"net/url"
	"slices"
)

const (
	minWorkMinutes  = 1
	maxPhaseMinutes = 720
	minCycles       = 1
	maxCycles       = 12
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for values the timer or the session
// API cannot work with.
func (c *Config) Validate() error {
	if c.Pomodoro.Preset != PresetCustom {
		if _, ok := presets[c.Pomodoro.Preset]; !ok {
			return errUnknownPreset.Fmt(c.Pomodoro.Preset)
		}
	}

	p := c.Pomodoro

	if p.WorkMinutes < minWorkMinutes || p.WorkMinutes > maxPhaseMinutes {
		return errInvalidDuration.Fmt("work", minWorkMinutes, maxPhaseMinutes)
	}

	// A zero-length break is allowed and skipped by the timer.
	if p.ShortBreakMinutes < 0 || p.ShortBreakMinutes > maxPhaseMinutes {
		return errInvalidDuration.Fmt("short break", 0, maxPhaseMinutes)
	}

	if p.LongBreakMinutes < 0 || p.LongBreakMinutes > maxPhaseMinutes {
		return errInvalidDuration.Fmt("long break", 0, maxPhaseMinutes)
	}

	if p.CyclesBeforeLongBreak < minCycles || p.CyclesBeforeLongBreak > maxCycles {
		return errInvalidCycles.Fmt(minCycles, maxCycles)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidBaseURL.Fmt(c.API.BaseURL)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errInvalidPort.Fmt(c.Server.Port)
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return nil
}
