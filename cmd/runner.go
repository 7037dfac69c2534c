package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/amsavalli07/socialsync/internal/auth"
	"github.com/amsavalli07/socialsync/internal/credentials"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/repositories"
	"github.com/amsavalli07/socialsync/internal/services"
	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// readPassword reads a line from a terminal without echo.
var readPassword = term.ReadPassword

// isTerminal reports whether fd is a terminal.
var isTerminal = term.IsTerminal

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	sessions   *session.Manager
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	stdin      *os.File
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Sessions   *session.Manager
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration.
//
// Config, client and session store left nil are resolved from flags in [Runner.Before].
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		sessions:   opts.Sessions,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if opts.Input == nil {
		r.stdin = os.Stdin
		opts.Input = os.Stdin
	}
	r.input = bufio.NewReader(opts.Input)
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, credentialsCommand, postCommand, themeCommand, apiCommand, sandboxCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves the configuration, log level and API client from the root flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if url := cmd.String("base-url"); url != "" {
		r.config.API.BaseURL = url
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	if cmd.Bool("ephemeral") && r.sessions == nil {
		r.sessions = session.NewManager(session.NewMemoryStore())
	}

	if r.client == nil {
		r.client = services.NewClient(r.config.API.BaseURL, r.httpClient)
	}
	return ctx, nil
}

// Close releases the session database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger used by the runner and the workflows it builds.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// session opens the session store on first use.
func (r *Runner) session() (*session.Manager, error) {
	if r.sessions != nil {
		return r.sessions, nil
	}
	if r.config == nil {
		return nil, fmt.Errorf("%w: config not loaded", shared.ErrMissingConfig)
	}

	db, err := shared.OpenSchema(r.config.Database.Path, shared.SessionSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	r.sessions = session.NewManager(repositories.NewKVRepository(db))
	r.logger.Debug("session store opened", "path", r.config.Database.Path)
	return r.sessions, nil
}

func (r *Runner) authController() (*auth.Controller, error) {
	sessions, err := r.session()
	if err != nil {
		return nil, err
	}
	return auth.NewController(r.client, sessions, r.logger), nil
}

func (r *Runner) credentialManager() (*credentials.Manager, error) {
	sessions, err := r.session()
	if err != nil {
		return nil, err
	}
	return credentials.NewManager(r.client, sessions, r.logger), nil
}

// settle prints a successful notice or turns a failed one into an error.
func (r *Runner) settle(n notify.Notice) error {
	if !n.OK() {
		if n.Err != nil {
			return fmt.Errorf("%s: %w", n.Message, n.Err)
		}
		return errors.New(n.Message)
	}
	return r.writePlain("✓ %s\n", n.Message)
}

// prompt reads one line from the input after printing label.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s: ", label)
	line, err := r.input.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// secret returns the flag value, or reads it without echo when stdin is a terminal.
func (r *Runner) secret(cmd *cli.Command, flag, label string) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}

	if r.stdin != nil && isTerminal(int(r.stdin.Fd())) {
		r.writePlain("%s: ", label)
		b, err := readPassword(int(r.stdin.Fd()))
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}
	return r.prompt(label)
}

// value returns the flag value or prompts for it.
func (r *Runner) value(cmd *cli.Command, flag, label string) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}
	return r.prompt(label)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
