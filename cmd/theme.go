package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// Theme prints the stored theme, or stores the one given.
func (r *Runner) Theme(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.session()
	if err != nil {
		return err
	}

	arg := cmd.StringArg("theme")
	if arg == "" {
		return r.writePlain("%s\n", sessions.Theme())
	}

	t, err := session.ParseTheme(arg)
	if err != nil {
		return err
	}
	if err := sessions.SetTheme(t); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
	}
	return r.writePlain("✓ Theme set to %s\n", t)
}
