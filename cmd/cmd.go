// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command with the flags every subcommand shares.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "socialsync",
		Usage:   "Post an image with a caption to Instagram, Facebook, Twitter & LinkedIn",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SOCIALSYNC_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Backend origin, overrides api.base_url",
				Sources: cli.EnvVars("SOCIALSYNC_BASE_URL"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the session in memory for this run only",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// setupCommand handles setup operations for configuration and the session store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file (default: the --config path)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the session store and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sandbox",
						Usage: "Also initialize the sandbox backend database",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	email := func() cli.Flag {
		return &cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
					email(),
					&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (prompted when omitted)"},
				},
				Action: r.AuthSignUp,
			},
			{
				Name:  "signin",
				Usage: "Sign in and store the session",
				Flags: []cli.Flag{
					email(),
					&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
				},
				Action: r.AuthSignIn,
			},
			{
				Name:  "recover",
				Usage: "Reset a forgotten password with a code sent by email",
				Flags: []cli.Flag{
					email(),
					&cli.StringFlag{Name: "otp", Usage: "One-time code (prompted when omitted)"},
					&cli.StringFlag{Name: "password", Usage: "New password (prompted when omitted)"},
					&cli.StringFlag{Name: "confirm", Usage: "New password confirmation (prompted when omitted)"},
				},
				Action: r.AuthRecover,
			},
			{
				Name:  "password",
				Usage: "Change the signed-in account's password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "old", Usage: "Current password (prompted when omitted)"},
					&cli.StringFlag{Name: "password", Usage: "New password (prompted when omitted)"},
					&cli.StringFlag{Name: "confirm", Usage: "New password confirmation (prompted when omitted)"},
					&cli.BoolFlag{Name: "reset", Usage: "Reset without the current password"},
				},
				Action: r.AuthPassword,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// credentialsCommand handles platform credential records
func credentialsCommand(r *Runner) *cli.Command {
	provider := func() []cli.Argument {
		return []cli.Argument{&cli.StringArg{Name: "provider", UsageText: "instagram, facebook or both"}}
	}

	return &cli.Command{
		Name:    "credentials",
		Aliases: []string{"creds"},
		Usage:   "Set up or edit platform credentials",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show which providers are configured",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.CredentialsStatus,
			},
			{
				Name:      "show",
				Usage:     "Print the stored record of a provider",
				Arguments: provider(),
				Action:    r.CredentialsShow,
			},
			{
				Name:      "set",
				Usage:     "Create or replace the record of a provider",
				Arguments: provider(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "access-token", Usage: "Instagram access token"},
					&cli.StringFlag{Name: "ig-user-id", Usage: "Instagram user id"},
					&cli.StringFlag{Name: "page-id", Usage: "Facebook page id"},
					&cli.StringFlag{Name: "facebook-access", Usage: "Facebook access token"},
				},
				Action: r.CredentialsSet,
			},
		},
	}
}

// postCommand uploads an image to the selected platforms
func postCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Upload an image with a caption to the selected platforms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Usage:    "Path to the image file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "caption",
				Usage: "Caption, at most 280 characters",
			},
			&cli.StringSliceFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Target platform, repeatable (default: composer.default_platforms)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the uploaded media in the browser",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Write the result to a file (default name: post_{unix}{ext})",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv, json",
				Value:   "text",
			},
		},
		Action: r.Post,
	}
}

// themeCommand shows or sets the stored theme
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or set the TUI theme",
		Arguments: []cli.Argument{&cli.StringArg{Name: "theme", UsageText: "light or dark"}},
		Action:    r.Theme,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	path := func() []cli.Argument { return []cli.Argument{&cli.StringArg{Name: "path"}} }
	data := func() cli.Flag {
		return &cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "JSON body to send",
			Required: true,
		}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET to the backend, prints raw JSON",
				Arguments: path(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: path(),
				Flags:     []cli.Flag{data()},
				Action:    r.APIPost,
			},
			{
				Name:      "put",
				Usage:     "Direct PUT with JSON body",
				Arguments: path(),
				Flags:     []cli.Flag{data()},
				Action:    r.APIPut,
			},
		},
	}
}

// sandboxCommand runs and inspects the local development backend
func sandboxCommand(r *Runner) *cli.Command {
	db := func() cli.Flag {
		return &cli.StringFlag{Name: "db", Usage: "Sandbox database path (default: sandbox.database_path)"}
	}

	return &cli.Command{
		Name:  "sandbox",
		Usage: "Local development backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the backend API locally",
				Flags: []cli.Flag{
					db(),
					&cli.StringFlag{Name: "addr", Usage: "Listen address (default: sandbox.host:sandbox.port)"},
					&cli.StringFlag{Name: "secret", Usage: "Token signing secret", Sources: cli.EnvVars("SOCIALSYNC_SANDBOX_SECRET")},
				},
				Action: r.SandboxServe,
			},
			{
				Name:  "history",
				Usage: "List posts received by the sandbox",
				Flags: []cli.Flag{
					db(),
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of posts", Value: 20},
					&cli.BoolFlag{Name: "csv", Usage: "Output CSV"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.SandboxHistory,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
