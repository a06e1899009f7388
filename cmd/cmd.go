// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes the config template and prepares the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml (if missing) and run database migrations",
		Action: r.Setup,
	}
}

// authCommand manages the local session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the local session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and store its session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password (at least 6 characters)",
						Required: true,
						Sources:  cli.EnvVars("REEL_PASSWORD"),
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "import",
				Usage: "Store an access token obtained elsewhere",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Usage:    "Access token",
						Required: true,
						Sources:  cli.EnvVars("REEL_ACCESS_TOKEN"),
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "User profile as JSON",
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:   "status",
				Usage:  "Show whether a session is stored",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// moviesCommand handles catalog operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "List, create, edit, delete and export movies",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List one page of movies",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Movies per page (defaults to api.page_size)",
					},
					jsonFlag(),
				},
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show one movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the poster in the browser",
					},
					jsonFlag(),
				},
				Action: r.MoviesShow,
			},
			{
				Name:  "create",
				Usage: "Create a movie, then upload its poster",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Movie title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "year",
						Usage:    "Publishing year",
						Required: true,
					},
					posterFlag(),
				},
				Action: r.MoviesCreate,
			},
			{
				Name:      "edit",
				Usage:     "Update a movie; unset fields keep their current values",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Movie title",
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Publishing year",
					},
					posterFlag(),
				},
				Action: r.MoviesEdit,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.MoviesDelete,
			},
			{
				Name:  "export",
				Usage: "Export the whole catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, yaml, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (stdout when empty)",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Movies per request (defaults to api.page_size)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Pages fetched concurrently (defaults to export.workers)",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// apiCommand handles raw API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Raw requests against the movie API",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path, prints the response body",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
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

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func posterFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "poster",
		Usage: "Poster image file to upload after saving",
	}
}
