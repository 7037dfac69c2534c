package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/services"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// apiClient returns the client, carrying the session token when one is stored.
func (r *Runner) apiClient() *services.Client {
	sessions, err := r.session()
	if err != nil {
		r.logger.Debug("calling without a session", "error", err)
		return r.client
	}
	if s, err := sessions.Require(); err == nil {
		return r.client.WithToken(s.Token)
	}
	return r.client
}

func apiPath(cmd *cli.Command) (string, error) {
	path := cmd.StringArg("path")
	if path == "" {
		return "", fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.apiClient().Get(ctx, path)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	return r.send(ctx, cmd, "POST", r.apiClient().Post)
}

// APIPut makes a direct PUT request to the backend
func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	return r.send(ctx, cmd, "PUT", r.apiClient().Put)
}

func (r *Runner) send(ctx context.Context, cmd *cli.Command, method string, do func(context.Context, string, []byte) (*services.APIResponse, error)) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}

	data := cmd.String("data")
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info(method+" request", "path", path)

	resp, err := do(ctx, path, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

// writeResponse prints the body of a 2xx response and turns any other status into an error.
func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", services.ErrUnexpectedResponse, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
