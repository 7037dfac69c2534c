package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/formatter"
	"github.com/amsavalli07/socialsync/internal/repositories"
	"github.com/amsavalli07/socialsync/internal/server"
	"github.com/amsavalli07/socialsync/internal/shared"
)

func (r *Runner) sandboxDB(cmd *cli.Command) string {
	if path := cmd.String("db"); path != "" {
		return path
	}
	return r.config.Sandbox.DatabasePath
}

// SandboxServe serves the backend API locally until interrupted.
func (r *Runner) SandboxServe(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Sandbox
	if secret := cmd.String("secret"); secret != "" {
		cfg.JWTSecret = secret
	}
	addr := cmd.String("addr")
	if addr == "" {
		addr = cfg.Addr()
	}

	path := r.sandboxDB(cmd)
	db, err := shared.OpenSchema(path, shared.SandboxSchema)
	if err != nil {
		return fmt.Errorf("failed to open sandbox database: %w", err)
	}
	defer db.Close()

	sb, err := server.New(db, server.OptionsFromConfig(cfg, r.logger))
	if err != nil {
		return err
	}

	r.logger.Info("sandbox ready", "addr", addr, "database", path)
	r.writePlain("Point the client at it with --base-url http://%s\n", addr)
	return sb.ListenAndServe(ctx, addr)
}

// SandboxHistory lists the posts the sandbox has received, newest first.
func (r *Runner) SandboxHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenSchema(r.sandboxDB(cmd), shared.SandboxSchema)
	if err != nil {
		return fmt.Errorf("failed to open sandbox database: %w", err)
	}
	defer db.Close()

	posts, err := repositories.NewPostRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("csv"):
		data, err := formatter.HistoryToCSV(posts)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	case cmd.Bool("json"):
		type entry struct {
			ID        string `json:"id"`
			Sequence  int    `json:"sequence"`
			Caption   string `json:"caption"`
			Format    string `json:"format"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
			SizeBytes int    `json:"size_bytes"`
			CreatedAt string `json:"created_at"`
		}
		out := make([]entry, 0, len(posts))
		for _, p := range posts {
			out = append(out, entry{p.ID(), p.Sequence(), p.Caption(), p.Format(), p.Width(), p.Height(), p.SizeBytes(), p.CreatedAt().UTC().Format(time.RFC3339)})
		}
		return r.writeJSON(out, true)
	}

	if len(posts) == 0 {
		return r.writePlain("No posts yet\n")
	}

	r.writePlainHeader(fmt.Sprintf("Posts (%d)", len(posts)))
	for _, p := range posts {
		r.writePlain("#%-4d %s  %s %dx%d  %s\n", p.Sequence(), p.CreatedAt().Local().Format("2006-01-02 15:04"), p.Format(), p.Width(), p.Height(), p.Caption())
	}
	return nil
}
