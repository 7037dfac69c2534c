package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/auth"
	"github.com/amsavalli07/socialsync/internal/composer"
	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/shared"
	"github.com/amsavalli07/socialsync/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.TUIPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	sessions, err := r.session()
	if err != nil {
		return err
	}

	board := &notify.Board{}
	c, err := r.newComposer(composer.Options{
		ClearDelay: r.config.Composer.ClearDelay(),
		ToastTTL:   r.config.Composer.ToastTTL(),
		Board:      board,
	})
	if err != nil {
		return err
	}

	return ui.Run(ctx, ui.Deps{
		Auth:        auth.NewController(r.client, sessions, r.logger),
		Credentials: credentials.NewManager(r.client, sessions, r.logger),
		Composer:    c,
		Sessions:    sessions,
		Board:       board,
		ClearDelay:  r.config.Composer.ClearDelay(),
		Logger:      r.logger,
	})
}
