package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyPreset                = "pomodoro.preset"
	keyCategory              = "pomodoro.category"
	keyWorkMinutes           = "pomodoro.work_minutes"
	keyShortBreakMinutes     = "pomodoro.short_break_minutes"
	keyLongBreakMinutes      = "pomodoro.long_break_minutes"
	keyCyclesBeforeLongBreak = "pomodoro.cycles_before_long_break"
	keyNotifications         = "settings.notifications"
	keyBell                  = "settings.bell"
	keySessionCmd            = "settings.cmd"
	keyTwentyFourHour        = "settings.24hr_clock"
	keyDarkTheme             = "settings.dark_theme"
	keyAPIBaseURL            = "api.base_url"
	keyAPIToken              = "api.token"
	keyServerPort            = "server.port"
	keyServerToken           = "server.token"
	keyStorageDir            = "storage.dir"
	keyLogLevel              = "log.level"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. The file is created with the current values if it
// does not exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c, configPath)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c, configPath)
	}
}

// setupViper registers the values already in c as defaults so that a
// prompt answer or an earlier option ends up in a newly written file.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyPreset, string(c.Pomodoro.Preset))
	v.SetDefault(keyCategory, c.Pomodoro.Category)
	v.SetDefault(keyWorkMinutes, c.Pomodoro.WorkMinutes)
	v.SetDefault(keyShortBreakMinutes, c.Pomodoro.ShortBreakMinutes)
	v.SetDefault(keyLongBreakMinutes, c.Pomodoro.LongBreakMinutes)
	v.SetDefault(keyCyclesBeforeLongBreak, c.Pomodoro.CyclesBeforeLongBreak)
	v.SetDefault(keyNotifications, c.Settings.Notifications)
	v.SetDefault(keyBell, c.Settings.Bell)
	v.SetDefault(keySessionCmd, c.Settings.Cmd)
	v.SetDefault(keyTwentyFourHour, c.Settings.TwentyFourHour)
	v.SetDefault(keyDarkTheme, c.Settings.DarkTheme)
	v.SetDefault(keyAPIBaseURL, c.API.BaseURL)
	v.SetDefault(keyAPIToken, c.API.Token)
	v.SetDefault(keyServerPort, c.Server.Port)
	v.SetDefault(keyServerToken, c.Server.Token)
	v.SetDefault(keyStorageDir, c.Storage.Dir)
	v.SetDefault(keyLogLevel, c.Log.Level)

	v.SetEnvPrefix("focus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadViperConfig copies the merged file and default values into c.
func loadViperConfig(v *viper.Viper, c *Config, configPath string) error {
	c.Pomodoro.Preset = Preset(v.GetString(keyPreset))
	c.Pomodoro.Category = v.GetString(keyCategory)
	c.Pomodoro.WorkMinutes = v.GetInt(keyWorkMinutes)
	c.Pomodoro.ShortBreakMinutes = v.GetInt(keyShortBreakMinutes)
	c.Pomodoro.LongBreakMinutes = v.GetInt(keyLongBreakMinutes)
	c.Pomodoro.CyclesBeforeLongBreak = v.GetInt(keyCyclesBeforeLongBreak)
	c.Settings.Notifications = v.GetBool(keyNotifications)
	c.Settings.Bell = v.GetBool(keyBell)
	c.Settings.Cmd = v.GetString(keySessionCmd)
	c.Settings.TwentyFourHour = v.GetBool(keyTwentyFourHour)
	c.Settings.DarkTheme = v.GetBool(keyDarkTheme)
	c.API.BaseURL = v.GetString(keyAPIBaseURL)
	c.API.Token = v.GetString(keyAPIToken)
	c.Server.Port = v.GetInt(keyServerPort)
	c.Server.Token = v.GetString(keyServerToken)
	c.Storage.Dir = v.GetString(keyStorageDir)
	c.Log.Level = v.GetString(keyLogLevel)
	c.Path = configPath

	return nil
}
