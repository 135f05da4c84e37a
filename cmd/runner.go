package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdb/internal/clients"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/scanner"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/desertthunder/songdb/internal/tasks"
	"github.com/desertthunder/songdb/internal/ui"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	palette  *ui.Palette
	db       *sql.DB
	ownsDB   bool
	lock     *dblock.Lock
	root     *directory.Directory
	registry *clients.List
	scanner  *scanner.Scanner
	updater  *updater.Updater
	loaded   bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	// DB is an already migrated catalog; when nil the configured one is opened on first use.
	DB *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	lock := &dblock.Lock{}
	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: ui.DefaultPalette(),
		db:      opts.DB,
		lock:    lock,
		root:    directory.NewRoot(lock),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, updateCommand, watchCommand, pruneCommand,
		lsCommand, treeCommand, findCommand, searchCommand, lookupCommand,
		playlistCommand, statsCommand, browseCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig replaces the runner config with the file named by --config when it exists.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	return shared.ConfigureLogger(r.logger, r.config.Log.Level)
}

// open prepares the catalog and the collaborators of the tree. Later calls are no-ops.
func (r *Runner) open(cmd *cli.Command) error {
	if r.updater != nil {
		return nil
	}

	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	if r.db == nil {
		db, err := shared.OpenCatalog(r.config)
		if err != nil {
			return err
		}
		r.db = db
		r.ownsDB = true
	}

	locale, err := directory.ParseLocale(r.config.Library.Locale)
	if err != nil {
		return fmt.Errorf("%w: library.locale: %v", shared.ErrInvalidConfig, err)
	}

	sc, err := scanner.New(r.db, scanner.OptionsFromConfig(r.config.Scan), r.logger)
	if err != nil {
		return err
	}

	r.registry = clients.NewList(r.config.Clients.MaxConnections)
	if err := r.registry.Add(clients.NewLogClient(r.logger)); err != nil {
		return err
	}

	r.scanner = sc
	r.updater = updater.New(r.lock, r.root, directory.NewSorter(locale, nil), r.db, r.registry, r.logger)
	return nil
}

// load opens the catalog and builds the tree from it once.
func (r *Runner) load(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(cmd); err != nil {
		return err
	}
	if r.loaded {
		return nil
	}

	if _, err := r.updater.Update(ctx, nil); err != nil {
		return fmt.Errorf("failed to load tree: %w", err)
	}
	r.loaded = true
	return nil
}

// Close releases the registry and the catalog.
func (r *Runner) Close() error {
	if r.registry != nil {
		r.registry.CloseAll()
	}
	if r.ownsDB && r.db != nil {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
}

// musicDir resolves the configured music directory, reporting when none is set.
func (r *Runner) musicDir() (string, error) {
	dir, err := r.config.MusicDir()
	if errors.Is(err, shared.ErrMusicDirMissing) {
		return "", fmt.Errorf("%w: set library.music_dir in the config file", err)
	}
	return dir, err
}

// startProgress returns a channel whose updates are printed and a func that
// closes it once the producer is finished. quiet returns a nil channel.
func (r *Runner) startProgress(quiet bool) (chan tasks.ProgressUpdate, func()) {
	if quiet {
		return nil, func() {}
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go r.printProgress(progress, done)

	return progress, func() {
		close(progress)
		<-done
	}
}

func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		switch update.Phase {
		case tasks.ScanRead:
			if update.Step == update.Total || update.Step%100 == 0 {
				r.writePlain("   %s\n", update)
			}
		default:
			r.writePlain("%s\n", update)
		}
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
