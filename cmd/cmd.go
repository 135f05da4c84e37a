// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func pathArg() cli.Argument {
	return &cli.StringArg{Name: "path"}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the catalog database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "rollback",
						Usage: "Undo the newest N migrations instead of applying pending ones",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the example configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// scanCommand catalogs the music directory
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the music directory into the catalog and update the tree",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "no-update",
				Usage: "Only write the catalog, skip the tree update",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not print progress",
			},
		},
		Action: r.Scan,
	}
}

func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "update",
		Usage:  "Reconcile the tree with the catalog and print what changed",
		Flags:  []cli.Flag{configFlag(), jsonFlag()},
		Action: r.Update,
	}
}

func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Rescan and update whenever the music directory changes",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Watch,
	}
}

func pruneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Drop catalog entries whose files are gone without a full rescan",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Only list what would be removed",
			},
		},
		Action: r.Prune,
	}
}

// lsCommand lists a directory
func lsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List the entries of a directory",
		Arguments: []cli.Argument{pathArg()},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, csv or md",
				Value:   string(formatter.FormatText),
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Include every descendant",
			},
			&cli.BoolFlag{
				Name:  "tags",
				Usage: "Print tag lines below each song (text format)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.Ls,
	}
}

func treeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Draw a directory and its descendants",
		Arguments: []cli.Argument{pathArg()},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "Directory levels to expand, 0 for all",
			},
		},
		Action: r.Tree,
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		jsonFlag(),
		&cli.StringFlag{
			Name:  "base",
			Usage: "Only search below this directory",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Stop after this many songs, 0 for no limit",
		},
	}
}

// findCommand handles exact tag matches
func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find songs whose tags equal the given values",
		ArgsUsage: "<tag> <value> [<tag> <value>...]",
		Flags:     queryFlags(),
		Action:    r.Find,
	}
}

// searchCommand handles case-insensitive substring matches
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search songs whose tags contain the given values, ignoring case",
		ArgsUsage: "<tag> <value> [<tag> <value>...]",
		Flags:     queryFlags(),
		Action:    r.Search,
	}
}

func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Resolve a URI to a song or directory, suggesting near names when it does not exist",
		Arguments: []cli.Argument{&cli.StringArg{Name: "uri"}},
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.IntFlag{
				Name:  "suggestions",
				Usage: "Maximum number of suggestions",
				Value: 3,
			},
		},
		Action: r.Lookup,
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Usage:     "Print the songs of a catalogued playlist file",
		Arguments: []cli.Argument{&cli.StringArg{Name: "uri"}},
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.BoolFlag{
				Name:  "missing",
				Usage: "Also list entries that are not in the tree",
			},
		},
		Action: r.Playlist,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print tree counts and collected metrics",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include every songdb metric",
				Value: true,
			},
		},
		Action: r.Stats,
	}
}

// browseCommand returns the interactive tree browser command.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"ui"},
		Usage:     "Browse the tree interactively",
		Arguments: []cli.Argument{pathArg()},
		Flags:     []cli.Flag{configFlag()},
		Action:    r.Browse,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the tree and metrics over a read-only HTTP API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, defaults to server.addr from the config",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Rescan the music directory when it changes",
			},
		},
		Action: r.Serve,
	}
}
