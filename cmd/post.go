package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/composer"
	"github.com/amsavalli07/socialsync/internal/formatter"
	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// newComposer builds a composer with the configured default platforms.
func (r *Runner) newComposer(opts composer.Options) (*composer.Composer, error) {
	for _, id := range r.config.Composer.DefaultPlatforms {
		p, err := models.ParsePlatform(id)
		if err != nil {
			return nil, err
		}
		opts.DefaultPlatforms = append(opts.DefaultPlatforms, p)
	}
	if opts.Logger == nil {
		opts.Logger = r.logger
	}
	return composer.New(r.client, opts), nil
}

// Post uploads an image with a caption in one request; the backend fans out to the selected platforms.
func (r *Runner) Post(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.JSON
	}

	sessions, err := r.session()
	if err != nil {
		return err
	}
	if !sessions.Authenticated() {
		return fmt.Errorf("%w: sign in before posting", shared.ErrNotAuthenticated)
	}

	c, err := r.newComposer(composer.Options{})
	if err != nil {
		return err
	}
	defer c.Close()

	f, err := composer.ReadFile(cmd.String("image"))
	if err != nil {
		return err
	}
	outcome, err := c.AttachImage(f)
	if err != nil {
		return err
	}
	if outcome == composer.Rejected {
		return fmt.Errorf("%w: %s is not an image", shared.ErrInvalidInput, f.Name)
	}

	if c.SetCaption(cmd.String("caption")) {
		r.logger.Warn("caption truncated", "limit", models.MaxCaptionLength)
	}
	if ids := cmd.StringSlice("platform"); len(ids) > 0 {
		if err := c.SetPlatforms(ids); err != nil {
			return err
		}
	}
	if !c.CanPost() {
		return fmt.Errorf("%w: %s", shared.ErrNothingToPost, composer.MsgNotPostable)
	}

	resp, n := c.Submit(ctx)
	if !n.OK() {
		return r.settle(n)
	}

	if path := cmd.String("export"); cmd.IsSet("export") {
		written, err := formatter.WriteExport(resp, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("post exported", "path", written)
	}

	if format == formatter.JSON {
		if err := r.writeJSON(resp, true); err != nil {
			return err
		}
	} else {
		out, err := formatter.Post(resp, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(resp.Data.Media.SecureURL); err != nil {
			r.logger.Warn("failed to open media", "url", resp.Data.Media.SecureURL, "error", err)
		}
	}
	return nil
}
