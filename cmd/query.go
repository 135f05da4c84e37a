package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/desertthunder/songdb/internal/library"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/desertthunder/songdb/internal/songfilter"
	"github.com/desertthunder/songdb/internal/ui"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/hbollon/go-edlib"
	"github.com/urfave/cli/v3"
)

// cleanPath turns user input like "/Artist/Album/" into a tree URI.
func cleanPath(p string) string {
	return strings.Trim(p, "/")
}

// withWalk runs fn under the shared tree lock and counts it as a walk of command.
func (r *Runner) withWalk(command string, fn func(g *dblock.ReadGuard) error) error {
	err := r.lock.WithRead(fn)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.WalksTotal.WithLabelValues(command, status).Inc()
	return err
}

func (r *Runner) lookupDir(g dblock.Holder, path string) (*directory.Directory, error) {
	d := r.root.LookupDirectory(g, path)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrDirNotFound, path)
	}
	return d, nil
}

// Ls prints the entries of a directory in the requested format.
func (r *Runner) Ls(ctx context.Context, cmd *cli.Command) error {
	format := formatter.Format(cmd.String("format"))
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("%w: --format must be one of text, json, csv, md", shared.ErrInvalidFlag)
	}

	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	path := cleanPath(cmd.StringArg("path"))
	var entries []formatter.Entry
	err := r.withWalk("ls", func(g *dblock.ReadGuard) error {
		d, err := r.lookupDir(g, path)
		if err != nil {
			return err
		}
		entries, err = formatter.Collect(g, d, formatter.Options{Recursive: cmd.Bool("recursive")})
		return err
	})
	if err != nil {
		return err
	}

	title := "/" + path
	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteExport(output, format, title, entries); err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d entries to %s\n", len(entries), output)
		return nil
	}

	data, err := formatter.Export(format, title, entries, cmd.Bool("tags"))
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// Tree draws a directory and its descendants.
func (r *Runner) Tree(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	depth := cmd.Int("depth")
	if depth < 0 {
		return fmt.Errorf("%w: --depth must not be negative", shared.ErrInvalidFlag)
	}

	path := cleanPath(cmd.StringArg("path"))
	var out string
	err := r.withWalk("tree", func(g *dblock.ReadGuard) error {
		d, err := r.lookupDir(g, path)
		if err != nil {
			return err
		}
		out, err = ui.RenderTree(g, d, depth, r.palette)
		return err
	})
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", out)
}

// Find lists songs whose tags equal the given values.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	return r.query(ctx, cmd, "find", false)
}

// Search lists songs whose tags contain the given values, ignoring case.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	return r.query(ctx, cmd, "search", true)
}

func (r *Runner) query(ctx context.Context, cmd *cli.Command, name string, foldCase bool) error {
	filter, err := songfilter.Parse(cmd.Args().Slice(), foldCase)
	if err != nil {
		return err
	}

	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	base := cleanPath(cmd.String("base"))
	var entries []formatter.Entry
	err = r.withWalk(name, func(g *dblock.ReadGuard) error {
		d, err := r.lookupDir(g, base)
		if err != nil {
			return err
		}
		entries, err = formatter.Collect(g, d, formatter.Options{
			Recursive: true,
			Filter:    filter,
			Limit:     cmd.Int("limit"),
		})
		return err
	})
	if err != nil {
		return err
	}

	songs := formatter.Songs(entries)
	r.logger.Debug("query finished", "command", name, "filter", filter.String(), "songs", len(songs))

	if cmd.Bool("json") {
		if songs == nil {
			songs = []formatter.Entry{}
		}
		return r.writeJSON(songs, true)
	}

	data, err := formatter.ExportToText(songs, false)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// LookupResult is what the lookup command reports.
type LookupResult struct {
	URI         string               `json:"uri"`
	Kind        formatter.Kind       `json:"type,omitempty"`
	Song        *models.DetachedSong `json:"song,omitempty"`
	Stats       *updater.Stats       `json:"stats,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// Lookup resolves a URI to a song or a directory and suggests near names when neither exists.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	if cmd.StringArg("uri") == "" {
		return fmt.Errorf("%w: uri", shared.ErrMissingArgument)
	}
	uri := cleanPath(cmd.StringArg("uri"))

	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	result := LookupResult{URI: uri}
	err := r.withWalk("lookup", func(g *dblock.ReadGuard) error {
		if s := r.root.LookupSong(g, uri); s != nil {
			result.Kind = formatter.KindSong
			result.Song = updater.Detach(s)
			return nil
		}
		if d := r.root.LookupDirectory(g, uri); d != nil {
			stats, err := updater.Count(g, d)
			if err != nil {
				return err
			}
			result.Kind = formatter.KindDirectory
			result.Stats = &stats
			return nil
		}
		suggestions, err := suggest(g, r.root, uri, cmd.Int("suggestions"))
		result.Suggestions = suggestions
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	} else {
		r.printLookup(result)
	}

	if result.Kind == "" {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
	}
	return nil
}

func (r *Runner) printLookup(result LookupResult) {
	switch result.Kind {
	case formatter.KindSong:
		r.writePlain("file: %s\n", result.Song.URI)
		for _, item := range result.Song.Tag.Items {
			r.writePlain("%s: %s\n", item.Type, item.Value)
		}
		if result.Song.Tag.Duration > 0 {
			r.writePlain("duration: %s\n", shared.FormatDuration(result.Song.Tag.Duration))
		}
		if !result.Song.LastModified.IsZero() {
			r.writePlain("last-modified: %s\n", result.Song.LastModified.UTC().Format("2006-01-02T15:04:05Z"))
		}
	case formatter.KindDirectory:
		r.writePlain("directory: %s\n", result.URI)
		r.writePlain("directories: %d\nsongs: %d\nplaylists: %d\n",
			result.Stats.Directories, result.Stats.Songs, result.Stats.Playlists)
	default:
		r.writePlain("%s not found\n", result.URI)
		if len(result.Suggestions) > 0 {
			r.writePlain("Did you mean:\n")
			for _, s := range result.Suggestions {
				r.writePlain("  %s\n", s)
			}
		}
	}
}

// suggest descends along uri as far as it exists and ranks the entries of the
// deepest directory reached by their similarity to the first missing segment.
func suggest(g dblock.Holder, root *directory.Directory, uri string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	d := root
	segments := strings.Split(uri, "/")
	missing := segments[len(segments)-1]
	for _, seg := range segments[:len(segments)-1] {
		child := d.FindChild(g, seg)
		if child == nil {
			missing = seg
			break
		}
		d = child
	}

	type candidate struct {
		path  string
		score float32
	}
	var candidates []candidate
	add := func(name, path string) {
		score, err := edlib.StringsSimilarity(strings.ToLower(missing), strings.ToLower(name), edlib.JaroWinkler)
		if err != nil || score < 0.6 {
			return
		}
		candidates = append(candidates, candidate{path: path, score: score})
	}

	err := d.Walk(g, directory.WalkOptions{
		VisitDirectory: func(child *directory.Directory) error {
			add(child.GetName(), child.GetPath()+"/")
			return nil
		},
		VisitSong: func(s *directory.Song) error {
			add(s.URI, s.Path())
			return nil
		},
		VisitPlaylist: func(p *directory.PlaylistInfo, _ *directory.Directory) error {
			add(p.Name, p.Path())
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return strings.Compare(a.path, b.path)
	})

	var out []string
	for _, c := range candidates[:min(limit, len(candidates))] {
		out = append(out, c.path)
	}
	return out, nil
}

// StatsReport is what the stats command reports.
type StatsReport struct {
	Tree     updater.Stats    `json:"tree"`
	LastScan *models.ScanRun  `json:"last_scan,omitempty"`
	Metrics  []metrics.Sample `json:"metrics,omitempty"`
}

// Stats prints tree counts, the last scan and the collected metrics.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	var report StatsReport
	err := r.withWalk("stats", func(g *dblock.ReadGuard) error {
		var err error
		report.Tree, err = updater.Count(g, r.root)
		return err
	})
	if err != nil {
		return err
	}
	report.Tree.Publish()

	run, err := library.NewScanRunRepository(r.db).Latest()
	switch {
	case err == nil:
		report.LastScan = run
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	if cmd.Bool("metrics") {
		if report.Metrics, err = metrics.Snapshot(nil); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("Tree")
	r.writePlain("Directories: %d\n", report.Tree.Directories)
	r.writePlain("Songs: %d\n", report.Tree.Songs)
	r.writePlain("Playlists: %d\n", report.Tree.Playlists)
	r.writePlain("Duration: %s\n", shared.FormatDuration(report.Tree.Duration))

	if report.LastScan != nil {
		r.writePlainln("Last scan: %s (%s)", report.LastScan.FinishedAt.Local().Format("2006-01-02 15:04"), report.LastScan.Root)
		r.writePlain("+%d ~%d -%d, %d playlists\n",
			report.LastScan.Added, report.LastScan.Updated, report.LastScan.Removed, report.LastScan.Playlists)
	}

	if len(report.Metrics) > 0 {
		r.writePlainln("Metrics:")
		for _, s := range report.Metrics {
			r.writePlain("  %s\n", s)
		}
	}
	return nil
}
