// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id", UsageText: "movie id"}}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

// setupCommand creates the config file and migrates the storage database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the storage database",
		Action: r.Setup,
	}
}

// authCommand handles sign in and the stored session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and store the access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("REELX_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored token and user",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalogue browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Browse the movie catalogue",
		Commands: []*cli.Command{
			{
				Name:  "popular",
				Usage: "List popular movies",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "Page to fetch (starting at 1)", Value: 1},
					&cli.BoolFlag{Name: "all", Usage: "Walk every page"},
					&cli.IntFlag{Name: "max-pages", Usage: "Stop --all after this many pages (0 for no limit)"},
					jsonFlag(),
				},
				Action: r.MoviesPopular,
			},
			{
				Name:      "show",
				Usage:     "Show a movie's details and favorite status",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.MoviesShow,
			},
			{
				Name:      "open",
				Usage:     "Open a movie's homepage in the browser",
				Arguments: idArg(),
				Action:    r.MoviesOpen,
			},
		},
	}
}

// favoritesCommand handles the signed-in user's favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to favorites",
				Arguments: idArg(),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from favorites",
				Arguments: idArg(),
				Action:    r.FavoritesRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Add or remove a movie depending on its current status",
				Arguments: idArg(),
				Action:    r.FavoritesToggle,
			},
			{
				Name:      "check",
				Usage:     "Report whether a movie is a favorite",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.FavoritesCheck,
			},
			{
				Name:  "export",
				Usage: "Export favorites as csv, md, txt or json",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format (csv, md, txt, json)", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (directory for md)"},
					&cli.BoolFlag{Name: "posters", Usage: "Download posters alongside a Markdown export"},
				},
				Action: r.FavoritesExport,
			},
			{
				Name:  "details",
				Usage: "Fetch full details for every favorite",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Usage: "Concurrent lookups", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second across workers", Value: 5},
					jsonFlag(),
				},
				Action: r.FavoritesDetails,
			},
		},
	}
}

// storageCommand handles the durable session storage
func storageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "storage",
		Usage: "Inspect and reset local storage",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove every entry in the configured namespace",
				Action: r.StorageClear,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent storage migration",
				Action: r.StorageRollback,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}

// mockCommand runs the in-memory movies service.
func mockCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mock",
		Usage: "Local mock of the movies service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the mock service until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (defaults to [mock] addr)"},
					&cli.IntFlag{Name: "page-size", Usage: "Movies per popular page"},
				},
				Action: r.MockServe,
			},
		},
	}
}
