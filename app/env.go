package app

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/andromeda/focus/api"
	"github.com/andromeda/focus/internal/config"
	"github.com/andromeda/focus/internal/logging"
	"github.com/andromeda/focus/internal/pathutil"
	"github.com/andromeda/focus/internal/storage"
	"github.com/andromeda/focus/internal/ui"
)

// env holds what every command needs: the loaded config and a logger
// writing to the focus log file.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// setup loads the configuration and the logger. The first-run prompt is
// only shown to interactive commands.
func setup(ctx *cli.Context, interactive bool) (*env, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	configPath := pathutil.ConfigFilePath()

	opts := []config.Option{}
	if interactive {
		opts = append(opts, config.WithPromptConfig(configPath))
	}

	opts = append(opts,
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	logger, closer := logging.New(logging.Config{
		Path:  pathutil.LogFilePath(),
		Level: cfg.Log.Level,
	})

	slog.SetDefault(logger)

	ui.DarkTheme = cfg.Settings.DarkTheme

	return &env{
		cfg:    cfg,
		logger: logger,
		closer: closer,
	}, nil
}

func (e *env) Close() {
	_ = e.closer.Close()
}

// stateDir is where the shared timer state lives.
func (e *env) stateDir() string {
	if e.cfg.Storage.Dir != "" {
		return e.cfg.Storage.Dir
	}

	return pathutil.StateDir()
}

// area opens the storage shared with the other focus processes.
func (e *env) area() (*storage.FileArea, error) {
	return storage.NewFileArea(e.stateDir())
}

// client returns a session API client for the configured server.
func (e *env) client() (*api.Client, error) {
	return api.New(
		e.cfg.API.BaseURL,
		api.WithToken(e.cfg.API.Token),
		api.WithLogger(e.logger),
	)
}
