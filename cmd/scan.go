package main

import (
	"context"

	"github.com/desertthunder/songdb/internal/scanner"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/urfave/cli/v3"
)

// Scan catalogs the music directory and, unless --no-update is set, applies the result to the tree.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	dir, err := r.musicDir()
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")
	r.logger.Info("starting scan", "root", dir)

	progress, stop := r.startProgress(quiet)
	result, err := r.scanner.Scan(ctx, dir, progress)
	stop()
	if err != nil {
		return err
	}

	r.printScan(result)

	if cmd.Bool("no-update") {
		return nil
	}

	progress, stop = r.startProgress(quiet)
	changes, err := r.updater.Update(ctx, progress)
	stop()
	if err != nil {
		return err
	}

	r.printChanges(changes)
	return nil
}

// Update rebuilds the tree from the catalog and prints what was applied.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(cmd); err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	progress, stop := r.startProgress(asJSON)
	result, err := r.updater.Update(ctx, progress)
	stop()
	if err != nil {
		return err
	}
	r.loaded = true

	if asJSON {
		return r.writeJSON(result, true)
	}
	r.printChanges(result)
	return nil
}

// Watch rescans and updates the tree each time the music directory changes, until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	dir, err := r.musicDir()
	if err != nil {
		return err
	}

	rescan := func(ctx context.Context) error {
		result, err := r.scanner.Scan(ctx, dir, nil)
		if err != nil {
			return err
		}
		changes, err := r.updater.Update(ctx, nil)
		if err != nil {
			return err
		}
		if changes.Changed() {
			r.writePlain("%d added, %d updated, %d removed\n", result.Added, result.Updated, result.Removed)
		}
		return nil
	}

	if err := rescan(ctx); err != nil {
		return err
	}

	r.writePlain("Watching %s (Ctrl+C to stop)\n", dir)
	return r.scanner.Watch(ctx, dir, rescan)
}

// Prune drops catalog rows for files that no longer exist and applies the removals to the tree.
func (r *Runner) Prune(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	dir, err := r.musicDir()
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	removed, err := r.scanner.PruneMissing(dir, dryRun)
	if err != nil {
		return err
	}

	for _, uri := range removed {
		r.writePlain("- %s\n", uri)
	}

	if dryRun {
		r.writePlain("%d entries would be removed\n", len(removed))
		return nil
	}
	if len(removed) == 0 {
		r.writePlain("Nothing to prune\n")
		return nil
	}

	changes, err := r.updater.Update(ctx, nil)
	if err != nil {
		return err
	}
	r.printChanges(changes)
	return nil
}

func (r *Runner) printScan(result *scanner.ScanResult) {
	r.writePlain("\n")
	r.writePlainHeader("Scan Complete")
	r.writePlain("Added: %d\n", result.Added)
	r.writePlain("Updated: %d\n", result.Updated)
	r.writePlain("Unchanged: %d\n", result.Unchanged)
	r.writePlain("Removed: %d\n", result.Removed)
	r.writePlain("Playlists: %d\n", result.Playlists)
	if result.Untagged > 0 {
		r.writePlain("Without tags: %d\n", result.Untagged)
	}
}

func (r *Runner) printChanges(result *updater.Result) {
	if !result.Changed() {
		r.writePlain("Tree is up to date\n")
		return
	}

	r.writePlain("Directories: +%d -%d\n", result.DirsCreated, result.DirsDeleted)
	r.writePlain("Songs: +%d ~%d -%d\n", result.SongsAdded, result.SongsUpdated, result.SongsRemoved)
	r.writePlain("Playlists: +%d -%d\n", result.PlaylistsAdded, result.PlaylistsRemoved)
}
