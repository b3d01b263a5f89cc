package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type CLITest struct {
	Name     string
	Preset   Preset
	Flags    map[string]string
	Expected PomodoroConfig
	WantErr  bool
}

var cliTestCases = []CLITest{
	{
		Name:   "no flags keeps the preset",
		Preset: PresetClassic,
		Expected: PomodoroConfig{
			Preset:                PresetClassic,
			WorkMinutes:           25,
			ShortBreakMinutes:     5,
			LongBreakMinutes:      15,
			CyclesBeforeLongBreak: 4,
		},
	},
	{
		Name:   "select a preset",
		Preset: PresetClassic,
		Flags:  map[string]string{"preset": "long"},
		Expected: PomodoroConfig{
			Preset:                PresetLong,
			WorkMinutes:           25,
			ShortBreakMinutes:     5,
			LongBreakMinutes:      15,
			CyclesBeforeLongBreak: 4,
		},
	},
	{
		Name:   "explicit work length switches to custom",
		Preset: PresetShort,
		Flags:  map[string]string{"work": "40", "category": "Study"},
		Expected: PomodoroConfig{
			Preset:                PresetCustom,
			Category:              "Study",
			WorkMinutes:           40,
			ShortBreakMinutes:     3,
			LongBreakMinutes:      10,
			CyclesBeforeLongBreak: 4,
		},
	},
	{
		Name:   "duration strings are accepted",
		Preset: PresetClassic,
		Flags:  map[string]string{"long-break": "1h", "short-break": "0", "cycles": "2"},
		Expected: PomodoroConfig{
			Preset:                PresetCustom,
			WorkMinutes:           25,
			ShortBreakMinutes:     0,
			LongBreakMinutes:      60,
			CyclesBeforeLongBreak: 2,
		},
	},
	{
		Name:    "invalid length",
		Preset:  PresetClassic,
		Flags:   map[string]string{"work": "soon"},
		WantErr: true,
	},
}

func newContext(t *testing.T, flags map[string]string) *cli.Context {
	t.Helper()

	f := flag.NewFlagSet("start", flag.ContinueOnError)

	for _, name := range []string{
		"preset", "work", "short-break", "long-break", "category",
		"api-url", "token", "session-cmd", "since", "filter", "log-level",
	} {
		_ = f.String(name, "", "")
	}

	_ = f.Int("cycles", 0, "")
	_ = f.Int("port", 0, "")

	for _, name := range []string{
		"disable-notification", "disable-bell", "headless", "24hr",
	} {
		_ = f.Bool(name, false, "")
	}

	for k, v := range flags {
		require.NoError(t, f.Set(k, v))
	}

	return cli.NewContext(&cli.App{}, f, nil)
}

func TestCLIDurations(t *testing.T) {
	for _, tc := range cliTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			c := Defaults()
			c.Pomodoro.Preset = tc.Preset

			err := WithCLIConfig(newContext(t, tc.Flags))(c)
			if tc.WantErr {
				assert.ErrorIs(t, err, errInvalidDuration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.Expected, c.Pomodoro)
		})
	}
}

func TestCLIOptions(t *testing.T) {
	c := Defaults()

	err := WithCLIConfig(newContext(t, map[string]string{
		"api-url":              "https://focus.example.com",
		"token":                "abc",
		"port":                 "9000",
		"session-cmd":          "notify-send done",
		"disable-notification": "true",
		"disable-bell":         "true",
		"headless":             "true",
		"filter":               "week",
		"log-level":            "debug",
	}))(c)
	require.NoError(t, err)

	assert.Equal(t, "https://focus.example.com", c.API.BaseURL)
	assert.Equal(t, "abc", c.API.Token)
	assert.Equal(t, "abc", c.Server.Token)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "notify-send done", c.Settings.Cmd)
	assert.False(t, c.Settings.Notifications)
	assert.False(t, c.Settings.Bell)
	assert.True(t, c.CLI.Headless)
	assert.Equal(t, "week", c.CLI.Filter)
	assert.Equal(t, "debug", c.Log.Level)
	assert.NoError(t, c.Validate())
}

func TestCLISince(t *testing.T) {
	now := time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

	c := Defaults()
	err := applyCLIOptions(c, CLIOptions{Since: "2024-05-01"}, now)
	require.NoError(t, err)

	assert.Equal(t, 2024, c.CLI.Since.Year())
	assert.Equal(t, time.May, c.CLI.Since.Month())
	assert.Equal(t, 1, c.CLI.Since.Day())

	err = applyCLIOptions(Defaults(), CLIOptions{Since: "   "}, now)
	assert.ErrorIs(t, err, errInvalidSince)
}

func TestParseMinutes(t *testing.T) {
	testCases := []struct {
		In   string
		Want int
	}{
		{"25", 25},
		{" 5 ", 5},
		{"90m", 90},
		{"1h30m", 90},
		{"0", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.In, func(t *testing.T) {
			got, err := parseMinutes(tc.In)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}
}
