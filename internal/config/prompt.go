package config

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
███████╗ ██████╗  ██████╗██╗   ██╗███████╗
██╔════╝██╔═══██╗██╔════╝██║   ██║██╔════╝
█████╗  ██║   ██║██║     ██║   ██║███████╗
██╔══╝  ██║   ██║██║     ██║   ██║╚════██║
██║     ╚██████╔╝╚██████╗╚██████╔╝███████║
╚═╝      ╚═════╝  ╚═════╝ ╚═════╝ ╚══════╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Preset        Preset
	Category      string
	BaseURL       string
	Notifications bool
}

// WithPromptConfig returns an Option that asks for the basic settings when
// no config file exists yet. The answers are written to the new file by
// WithViperConfig.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser(c)
		if err != nil {
			return errPrompt.Wrap(err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser(c *Config) (PromptOptions, error) {
	opts := PromptOptions{
		Preset:        c.Pomodoro.Preset,
		BaseURL:       c.API.BaseURL,
		Notifications: c.Settings.Notifications,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure Focus for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'focus edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Preset]().
				Title("Pomodoro preset").
				Options(
					huh.NewOption("Classic (25/5/15, long break every 4)", PresetClassic).
						Selected(true),
					huh.NewOption("Short (15/3/10, long break every 4)", PresetShort),
					huh.NewOption("Long (50/10/30, long break every 3)", PresetLong),
					huh.NewOption("Custom (edit the config file)", PresetCustom),
				).
				Value(&opts.Preset),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Default category").
				Description("Name or id. Leave empty to pass --category each time.").
				Value(&opts.Category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Session API address").
				Value(&opts.BaseURL),
			huh.NewConfirm().
				Title("Show desktop notifications when a phase ends?").
				Value(&opts.Notifications),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, err
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Pomodoro.Preset = opts.Preset
	c.Pomodoro.Category = strings.TrimSpace(opts.Category)
	c.Settings.Notifications = opts.Notifications

	if u := strings.TrimSpace(opts.BaseURL); u != "" {
		c.API.BaseURL = u
	}

	c.applyPreset()
}
