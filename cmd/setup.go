package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// SetupConfig writes the embedded default configuration to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: --output or --config is required", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Configuration written to %s\n", path)
}

// SetupDatabase initializes the session store and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing session store", "path", r.config.Database.Path)

	if _, err := r.session(); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if r.db != nil {
		if versions, err := shared.AppliedVersions(r.db, shared.SessionSchema); err == nil {
			r.logger.Debug("session migrations applied", "versions", versions)
		}
	}
	r.writePlain("✓ Session store ready at %s\n", r.config.Database.Path)

	if !cmd.Bool("sandbox") {
		return nil
	}

	path := r.config.Sandbox.DatabasePath
	r.logger.Info("initializing sandbox database", "path", path)

	db, err := shared.OpenSchema(path, shared.SandboxSchema)
	if err != nil {
		return fmt.Errorf("failed to create sandbox database: %w", err)
	}
	defer db.Close()

	return r.writePlain("✓ Sandbox database ready at %s\n", path)
}
