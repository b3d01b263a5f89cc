// Package config loads the focus configuration from the config file,
// command-line flags and the first-run prompt.
package config

import (
	"time"

	"github.com/andromeda/focus/timer"
)

// Preset names a set of phase lengths.
type Preset string

const (
	PresetClassic Preset = "classic"
	PresetShort   Preset = "short"
	PresetLong    Preset = "long"
	PresetCustom  Preset = "custom"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8765"
	DefaultPort    = 8765
)

var presets = map[Preset]timer.Settings{
	PresetClassic: {
		WorkMinutes:           25,
		ShortBreakMinutes:     5,
		LongBreakMinutes:      15,
		CyclesBeforeLongBreak: 4,
	},
	PresetShort: {
		WorkMinutes:           15,
		ShortBreakMinutes:     3,
		LongBreakMinutes:      10,
		CyclesBeforeLongBreak: 4,
	},
	PresetLong: {
		WorkMinutes:           50,
		ShortBreakMinutes:     10,
		LongBreakMinutes:      30,
		CyclesBeforeLongBreak: 3,
	},
}

// PresetSettings returns the phase lengths of a named preset.
func PresetSettings(p Preset) (timer.Settings, bool) {
	s, ok := presets[p]
	return s, ok
}

type (
	PomodoroConfig struct {
		Preset                Preset `mapstructure:"preset"                   yaml:"preset"`
		Category              string `mapstructure:"category"                 yaml:"category"`
		WorkMinutes           int    `mapstructure:"work_minutes"             yaml:"work_minutes"`
		ShortBreakMinutes     int    `mapstructure:"short_break_minutes"      yaml:"short_break_minutes"`
		LongBreakMinutes      int    `mapstructure:"long_break_minutes"       yaml:"long_break_minutes"`
		CyclesBeforeLongBreak int    `mapstructure:"cycles_before_long_break" yaml:"cycles_before_long_break"`
	}

	SettingsConfig struct {
		Cmd            string `mapstructure:"cmd"           yaml:"cmd"`
		Notifications  bool   `mapstructure:"notifications" yaml:"notifications"`
		Bell           bool   `mapstructure:"bell"          yaml:"bell"`
		TwentyFourHour bool   `mapstructure:"24hr_clock"    yaml:"24hr_clock"`
		DarkTheme      bool   `mapstructure:"dark_theme"    yaml:"dark_theme"`
	}

	APIConfig struct {
		BaseURL string `mapstructure:"base_url" yaml:"base_url"`
		Token   string `mapstructure:"token"    yaml:"token"`
	}

	ServerConfig struct {
		Token string `mapstructure:"token" yaml:"token"`
		Port  int    `mapstructure:"port"  yaml:"port"`
	}

	StorageConfig struct {
		Dir string `mapstructure:"dir" yaml:"dir"`
	}

	LogConfig struct {
		Level string `mapstructure:"level" yaml:"level"`
	}

	// CLIConfig holds values that only make sense for a single invocation.
	CLIConfig struct {
		Since    time.Time
		Filter   string
		Headless bool
	}

	Config struct {
		CLI      CLIConfig      `mapstructure:"-"        yaml:"-"`
		Path     string         `mapstructure:"-"        yaml:"-"`
		Pomodoro PomodoroConfig `mapstructure:"pomodoro" yaml:"pomodoro"`
		Settings SettingsConfig `mapstructure:"settings" yaml:"settings"`
		API      APIConfig      `mapstructure:"api"      yaml:"api"`
		Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
		Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
		Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	}
)

// Option is a function that configures a Config instance.
type Option func(*Config) error

// New creates a new Config instance with the provided options. The options
// are applied in order so later sources override earlier ones.
func New(opts ...Option) (*Config, error) {
	c := Defaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.applyPreset()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	classic := presets[PresetClassic]

	return &Config{
		Pomodoro: PomodoroConfig{
			Preset:                PresetClassic,
			WorkMinutes:           classic.WorkMinutes,
			ShortBreakMinutes:     classic.ShortBreakMinutes,
			LongBreakMinutes:      classic.LongBreakMinutes,
			CyclesBeforeLongBreak: classic.CyclesBeforeLongBreak,
		},
		Settings: SettingsConfig{
			Notifications: true,
			Bell:          true,
			DarkTheme:     true,
		},
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyPreset overwrites the phase lengths with those of a named preset.
// The custom preset keeps the configured minutes.
func (c *Config) applyPreset() {
	s, ok := presets[c.Pomodoro.Preset]
	if !ok {
		return
	}

	c.Pomodoro.WorkMinutes = s.WorkMinutes
	c.Pomodoro.ShortBreakMinutes = s.ShortBreakMinutes
	c.Pomodoro.LongBreakMinutes = s.LongBreakMinutes
	c.Pomodoro.CyclesBeforeLongBreak = s.CyclesBeforeLongBreak
}

// TimerSettings returns the phase lengths the engine runs with.
func (c *Config) TimerSettings() timer.Settings {
	return timer.Settings{
		WorkMinutes:           c.Pomodoro.WorkMinutes,
		ShortBreakMinutes:     c.Pomodoro.ShortBreakMinutes,
		LongBreakMinutes:      c.Pomodoro.LongBreakMinutes,
		CyclesBeforeLongBreak: c.Pomodoro.CyclesBeforeLongBreak,
	}
}
