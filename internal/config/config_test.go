package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/config"
	"github.com/andromeda/focus/internal/testutil"
	"github.com/andromeda/focus/timer"
)

type TestCase struct {
	Cfg    *config.Config
	T      *testing.T
	Golden string
}

func (tc TestCase) Output() ([]byte, string) {
	tc.T.Helper()

	out, err := tc.Cfg.Dump()
	require.NoError(tc.T, err)

	return out, tc.Golden
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	return testutil.TempFile(t, "config.yml", content)
}

func TestDefaultsDump(t *testing.T) {
	testutil.CompareGoldenFile(t, TestCase{
		T:      t,
		Cfg:    config.Defaults(),
		Golden: "defaults",
	})
}

func TestDumpRedactsTokens(t *testing.T) {
	cfg := config.Defaults()
	cfg.API.Token = "secret"
	cfg.Server.Token = "secret"

	out, err := cfg.Dump()
	require.NoError(t, err)

	assert.NotContains(t, string(out), "secret")
	assert.Contains(t, string(out), "********")
	assert.Equal(t, "secret", cfg.API.Token)
}

func TestWithViperConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := config.New(config.WithViperConfig(path))
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, timer.Settings{
		WorkMinutes:           25,
		ShortBreakMinutes:     5,
		LongBreakMinutes:      15,
		CyclesBeforeLongBreak: 4,
	}, cfg.TimerSettings())

	// a second load reads the file that was just written
	again, err := config.New(config.WithViperConfig(path))
	require.NoError(t, err)

	assert.Equal(t, cfg.Pomodoro, again.Pomodoro)
	assert.Equal(t, cfg.Settings, again.Settings)
}

func TestWithViperConfig(t *testing.T) {
	testCases := []struct {
		Name     string
		Content  string
		Expected timer.Settings
		Category string
	}{
		{
			Name: "named preset overrides minutes",
			Content: `pomodoro:
  preset: long
  work_minutes: 10
`,
			Expected: timer.Settings{
				WorkMinutes:           50,
				ShortBreakMinutes:     10,
				LongBreakMinutes:      30,
				CyclesBeforeLongBreak: 3,
			},
		},
		{
			Name: "custom preset keeps minutes",
			Content: `pomodoro:
  preset: custom
  category: Study
  work_minutes: 40
  short_break_minutes: 0
  long_break_minutes: 20
  cycles_before_long_break: 2
`,
			Expected: timer.Settings{
				WorkMinutes:           40,
				ShortBreakMinutes:     0,
				LongBreakMinutes:      20,
				CyclesBeforeLongBreak: 2,
			},
			Category: "Study",
		},
		{
			Name: "short preset",
			Content: `pomodoro:
  preset: short
`,
			Expected: timer.Settings{
				WorkMinutes:           15,
				ShortBreakMinutes:     3,
				LongBreakMinutes:      10,
				CyclesBeforeLongBreak: 4,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			path := writeConfig(t, tc.Content)

			cfg, err := config.New(config.WithViperConfig(path))
			require.NoError(t, err)

			assert.Equal(t, tc.Expected, cfg.TimerSettings())
			assert.Equal(t, tc.Category, cfg.Pomodoro.Category)
			assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
		})
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		Name    string
		Content string
	}{
		{
			Name:    "unknown preset",
			Content: "pomodoro:\n  preset: marathon\n",
		},
		{
			Name:    "work too short",
			Content: "pomodoro:\n  preset: custom\n  work_minutes: 0\n",
		},
		{
			Name:    "negative break",
			Content: "pomodoro:\n  preset: custom\n  short_break_minutes: -1\n",
		},
		{
			Name:    "no cycles",
			Content: "pomodoro:\n  preset: custom\n  cycles_before_long_break: 0\n",
		},
		{
			Name:    "bad base url",
			Content: "api:\n  base_url: localhost:8765\n",
		},
		{
			Name:    "bad port",
			Content: "server:\n  port: 70000\n",
		},
		{
			Name:    "bad log level",
			Content: "log:\n  level: verbose\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			path := writeConfig(t, tc.Content)

			_, err := config.New(config.WithViperConfig(path))
			assert.Error(t, err)
		})
	}
}

func TestPresetSettings(t *testing.T) {
	s, ok := config.PresetSettings(config.PresetClassic)
	assert.True(t, ok)
	assert.Equal(t, 25, s.WorkMinutes)

	_, ok = config.PresetSettings(config.PresetCustom)
	assert.False(t, ok)
}
