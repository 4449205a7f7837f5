package app

import (
	"context"
	"fmt"
	"io"

	"github.com/five82/pivot/internal/config"
	"github.com/five82/pivot/internal/logging"
	"github.com/five82/pivot/internal/prefs"
	"github.com/five82/pivot/internal/rotate"
	"github.com/five82/pivot/internal/ui"
	"github.com/five82/pivot/internal/upload"
)

// Options configure the pivot application.
type Options struct {
	ConfigPath string // empty uses ~/.config/pivot/config.toml
	PrefsPath  string // empty uses ~/.config/pivot/prefs.toml
	File       string // optional image to select before the UI starts
}

// Run boots the pivot TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	uiOpts, closer, err := build(ctx, opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	uiOpts.Logger.Info().Str("endpoint", uiOpts.Endpoint).Msg("pivot starting")
	err = ui.Run(uiOpts)
	if err != nil {
		uiOpts.Logger.Error().Err(err).Msg("ui exited")
	}
	return err
}

// build loads configuration and wires the upload controller to the rotate
// client. The closer releases the log file.
func build(ctx context.Context, opts Options) (ui.Options, io.Closer, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("open log: %w", err)
	}

	client, err := rotate.NewClient(rotate.DefaultEndpoint)
	if err != nil {
		_ = closer.Close()
		return ui.Options{}, nil, fmt.Errorf("init rotate client: %w", err)
	}

	uploads := upload.NewController(client,
		upload.WithLogger(logger.With().Str("component", "upload").Logger()),
	)

	if opts.File != "" {
		file, err := upload.Inspect(opts.File)
		if err != nil {
			_ = closer.Close()
			return ui.Options{}, nil, fmt.Errorf("preselect %s: %w", opts.File, err)
		}
		if !file.IsImage() {
			_ = closer.Close()
			return ui.Options{}, nil, fmt.Errorf("preselect %s: %s is not an image", opts.File, file.ContentType)
		}
		uploads.Select(file)
	}

	return ui.Options{
		Context:   ctx,
		Uploads:   uploads,
		Config:    &cfg,
		Endpoint:  client.Endpoint(),
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    logger.With().Str("component", "ui").Logger(),
	}, closer, nil
}
